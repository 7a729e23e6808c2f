// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"bytes"
	"sort"
	"sync"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var readyTransactionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "primitives_transaction",
	Name:      "ready_total",
	Help:      "total number of validated transactions in the pool",
})

// ValidTransaction is an encoded extrinsic with its validity.
type ValidTransaction struct {
	Extrinsic []byte
	Validity  Validity
}

// NewValidTransaction returns ValidTransaction
func NewValidTransaction(extrinsic []byte, validity Validity) *ValidTransaction {
	return &ValidTransaction{
		Extrinsic: extrinsic,
		Validity:  validity,
	}
}

// Hash returns the blake2b hash of the encoded extrinsic.
func (vt *ValidTransaction) Hash() common.Hash {
	return common.MustBlake2bHash(vt.Extrinsic)
}

// Pool holds the transactions which passed validation,
// keyed by the hash of their encoding.
type Pool struct {
	transactions map[common.Hash]*ValidTransaction
	mu           sync.RWMutex
}

// NewPool returns a new empty Pool
func NewPool() *Pool {
	return &Pool{
		transactions: make(map[common.Hash]*ValidTransaction),
	}
}

// Transactions returns all the transactions in the pool, highest priority first.
// Transactions with equal priority are ordered by their encoding.
func (p *Pool) Transactions() []*ValidTransaction {
	p.mu.RLock()
	txs := make([]*ValidTransaction, 0, len(p.transactions))
	for _, tx := range p.transactions {
		txs = append(txs, tx)
	}
	p.mu.RUnlock()

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Validity.Priority != txs[j].Validity.Priority {
			return txs[i].Validity.Priority > txs[j].Validity.Priority
		}
		return bytes.Compare(txs[i].Extrinsic, txs[j].Extrinsic) < 0
	})
	return txs
}

// Insert inserts a transaction into the pool and returns its hash.
func (p *Pool) Insert(tx *ValidTransaction) common.Hash {
	hash := tx.Hash()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transactions[hash] = tx
	readyTransactionsGauge.Set(float64(len(p.transactions)))
	return hash
}

// Get returns the transaction with the given hash, or nil if it is not in the pool.
func (p *Pool) Get(hash common.Hash) *ValidTransaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.transactions[hash]
}

// Remove removes a transaction from the pool
func (p *Pool) Remove(hash common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.transactions, hash)
	readyTransactionsGauge.Set(float64(len(p.transactions)))
}

// Len returns the total of valid transactions in the pool
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.transactions)
}
