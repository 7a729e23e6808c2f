// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extensions

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
	"github.com/ChainSafe/gossamer-primitives/pkg/extrinsic"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// NonceStore holds the next expected nonce of each account.
type NonceStore interface {
	Nonce(who extrinsic.AccountID) (nonce uint64, err error)
	SetNonce(who extrinsic.AccountID, nonce uint64) error
}

// CheckNonce protects signed extrinsics against replay.
// Unsigned extrinsics are not checked.
type CheckNonce[C any] struct {
	extrinsic.NoopExtension[C]
	Nonce uint64
	store NonceStore
}

// NewCheckNonce returns a CheckNonce extension for the given extrinsic nonce.
func NewCheckNonce[C any](nonce uint64, store NonceStore) *CheckNonce[C] {
	return &CheckNonce[C]{
		Nonce: nonce,
		store: store,
	}
}

// Identifier returns "CheckNonce".
func (*CheckNonce[C]) Identifier() string { return "CheckNonce" }

// Validate rejects stale nonces. A nonce ahead of the account nonce is valid
// but requires the tag of the previous nonce of the account.
func (cn *CheckNonce[C]) Validate(who extrinsic.AccountID, _ C, _ extrinsic.DispatchInfo, _ uint) (
	validity transaction.Validity, err error) {
	current, err := cn.store.Nonce(who)
	if err != nil {
		return validity, fmt.Errorf("%w: getting nonce: %w",
			transaction.NewUnknownTransaction(transaction.CannotLookup), err)
	}

	if cn.Nonce < current {
		return validity, transaction.NewInvalidTransaction(transaction.Stale)
	}

	provides, err := nonceTag(who, cn.Nonce)
	if err != nil {
		return validity, err
	}

	var requires [][]byte
	if cn.Nonce > current {
		previous, err := nonceTag(who, cn.Nonce-1)
		if err != nil {
			return validity, err
		}
		requires = [][]byte{previous}
	}

	return transaction.Validity{
		Requires:  requires,
		Provides:  [][]byte{provides},
		Longevity: transaction.MaxLongevity,
		Propagate: true,
	}, nil
}

// PreDispatch only accepts the current nonce of the account, and increments it.
func (cn *CheckNonce[C]) PreDispatch(who extrinsic.AccountID, _ C, _ extrinsic.DispatchInfo, _ uint) (
	extrinsic.Pre, error) {
	current, err := cn.store.Nonce(who)
	if err != nil {
		return nil, fmt.Errorf("%w: getting nonce: %w",
			transaction.NewUnknownTransaction(transaction.CannotLookup), err)
	}

	switch {
	case cn.Nonce < current:
		return nil, transaction.NewInvalidTransaction(transaction.Stale)
	case cn.Nonce > current:
		return nil, transaction.NewInvalidTransaction(transaction.Future)
	}

	err = cn.store.SetNonce(who, current+1)
	if err != nil {
		return nil, fmt.Errorf("setting nonce: %w", err)
	}
	return nil, nil //nolint:nilnil
}

type accountNonce struct {
	Who   extrinsic.AccountID
	Nonce uint64
}

func nonceTag(who extrinsic.AccountID, nonce uint64) (tag []byte, err error) {
	tag, err = scale.Marshal(accountNonce{Who: who, Nonce: nonce})
	if err != nil {
		return nil, fmt.Errorf("encoding nonce tag: %w", err)
	}
	return tag, nil
}
