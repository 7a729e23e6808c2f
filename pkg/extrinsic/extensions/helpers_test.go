// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extensions

import (
	"errors"

	"github.com/ChainSafe/gossamer-primitives/pkg/extrinsic"
)

var (
	alice     = extrinsic.AccountID{1}
	bob       = extrinsic.AccountID{2}
	collector = extrinsic.AccountID{0xfe}
	errTest   = errors.New("test error")
)

type transferCall struct {
	dispatched int
	err        error
}

func (c *transferCall) Dispatch(extrinsic.RawOrigin) error {
	c.dispatched++
	return c.err
}

type nonces struct {
	values map[extrinsic.AccountID]uint64
	err    error
}

func newNonces() *nonces {
	return &nonces{values: make(map[extrinsic.AccountID]uint64)}
}

func (n *nonces) Nonce(who extrinsic.AccountID) (uint64, error) {
	return n.values[who], n.err
}

func (n *nonces) SetNonce(who extrinsic.AccountID, nonce uint64) error {
	n.values[who] = nonce
	return nil
}

type blockWeight struct {
	weight uint64
}

func (b *blockWeight) BlockWeight() (uint64, error) { return b.weight, nil }

func (b *blockWeight) SetBlockWeight(weight uint64) error {
	b.weight = weight
	return nil
}

type balances struct {
	free        map[extrinsic.AccountID]uint64
	withdrawErr error
}

func newBalances(free map[extrinsic.AccountID]uint64) *balances {
	return &balances{free: free}
}

func (b *balances) FreeBalance(who extrinsic.AccountID) (uint64, error) {
	return b.free[who], nil
}

func (b *balances) Withdraw(who extrinsic.AccountID, amount uint64) error {
	if b.withdrawErr != nil {
		return b.withdrawErr
	}
	b.free[who] -= amount
	return nil
}

func (b *balances) Deposit(who extrinsic.AccountID, amount uint64) error {
	b.free[who] += amount
	return nil
}
