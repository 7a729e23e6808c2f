// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import "github.com/ChainSafe/gossamer-primitives/lib/transaction"

// UnsignedValidator gates unsigned extrinsics for calls of type C.
type UnsignedValidator[C any] interface {
	// ValidateUnsigned validates the unsigned call for the transaction pool.
	ValidateUnsigned(call C) (transaction.Validity, error)
	// PreDispatch validates the unsigned call before it is dispatched in a block.
	PreDispatch(call C) error
}

// RejectUnsigned is the UnsignedValidator of call types
// which do not accept any unsigned extrinsic.
type RejectUnsigned[C any] struct{}

// ValidateUnsigned always fails.
func (RejectUnsigned[C]) ValidateUnsigned(C) (transaction.Validity, error) {
	return transaction.Validity{}, transaction.NewUnknownTransaction(transaction.NoUnsignedValidator)
}

// PreDispatch always fails.
func (RejectUnsigned[C]) PreDispatch(C) error {
	return transaction.NewUnknownTransaction(transaction.NoUnsignedValidator)
}
