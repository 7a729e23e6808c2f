// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import "github.com/ChainSafe/gossamer-primitives/lib/transaction"

// Signature is the origin classification of a checked extrinsic for
// a call of type C. It is one of Inherent, Signed or Detached.
type Signature[C any] interface {
	signatureOf(C)
}

// Inherent is the signature of an extrinsic produced by the block author.
// It has no signer and no extension data.
type Inherent[C any] struct{}

func (Inherent[C]) signatureOf(C) {}

// Signed is the signature of an extrinsic signed by an account.
type Signed[C any] struct {
	Who   AccountID
	Extra ExtensionChain[C]
}

func (Signed[C]) signatureOf(C) {}

// Detached is the signature of an unsigned extrinsic which still carries
// extension data, and is gated by an UnsignedValidator.
type Detached[C any] struct {
	Extra ExtensionChain[C]
}

func (Detached[C]) signatureOf(C) {}

// InherentValidity is the validity of every inherent extrinsic: no priority,
// never expiring and never propagated to other peers.
func InherentValidity() transaction.Validity {
	return transaction.Validity{
		Longevity: transaction.MaxLongevity,
		Propagate: false,
	}
}
