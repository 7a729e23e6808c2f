// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package recorder

import (
	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie"
	"github.com/tidwall/btree"
)

// ErrIncompleteDB is returned when a node of the recorded trie is missing.
var ErrIncompleteDB = trie.ErrIncompleteDB

// Record is a trie node loaded by hash from the node database.
type Record struct {
	Hash common.Hash
	Data []byte
}

// Recorder records the trie nodes loaded from a node database,
// and optionally the keys of the values read.
type Recorder struct {
	nodes        []Record
	recordedKeys *btree.Map[string, struct{}]
}

// Option configures a Recorder.
type Option func(r *Recorder)

// WithKeys makes the recorder also record the keys of the values read.
func WithKeys() Option {
	return func(r *Recorder) {
		r.recordedKeys = btree.NewMap[string, struct{}](0)
	}
}

// NewRecorder returns a new empty Recorder.
func NewRecorder(options ...Option) *Recorder {
	recorder := &Recorder{
		nodes: []Record{},
	}
	for _, option := range options {
		option(recorder)
	}
	return recorder
}

// RecordAll walks the whole trie with the given root hash and records
// every node loaded by hash, the root node included, in visit order.
// Inlined nodes are part of their parent encoding and are not recorded
// on their own. If a node is missing, the nodes reached so far stay
// recorded and an error wrapping ErrIncompleteDB is returned.
func (r *Recorder) RecordAll(db trie.NodeGetter, root common.Hash) (err error) {
	recording := &recordingDB{
		db:       db,
		recorder: r,
	}
	return trie.Walk(recording, root, func(key, _ []byte) error {
		if r.recordedKeys != nil {
			r.recordedKeys.Set(string(key), struct{}{})
		}
		return nil
	})
}

func (r *Recorder) record(hash common.Hash, data []byte) {
	r.nodes = append(r.nodes, Record{Hash: hash, Data: data})
}

// Len returns the number of nodes recorded.
func (r *Recorder) Len() int {
	return len(r.nodes)
}

// RecordedKeys returns the keys of the values read, in key order.
// It returns nil if the recorder was not created with WithKeys.
func (r *Recorder) RecordedKeys() (keys [][]byte) {
	if r.recordedKeys == nil {
		return nil
	}
	keys = make([][]byte, 0, r.recordedKeys.Len())
	r.recordedKeys.Scan(func(key string, _ struct{}) bool {
		keys = append(keys, []byte(key))
		return true
	})
	return keys
}

// Drain returns the recorded nodes and resets the recorder.
func (r *Recorder) Drain() []Record {
	if r.recordedKeys != nil {
		r.recordedKeys.Clear()
	}
	nodesToReturn := r.nodes
	r.nodes = []Record{}
	return nodesToReturn
}

type recordingDB struct {
	db       trie.NodeGetter
	recorder *Recorder
}

func (rdb *recordingDB) Get(hash common.Hash) (data []byte, err error) {
	data, err = rdb.db.Get(hash)
	if err == nil && data != nil {
		rdb.recorder.record(hash, data)
	}
	return data, err
}
