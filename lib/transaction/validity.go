// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"math"
)

// MaxLongevity is the longevity of a transaction that never expires.
const MaxLongevity = math.MaxUint64

// Validity is the information on how a valid transaction relates to
// other transactions in the pool. See
// https://spec.polkadot.network/chap-tx#defn-valid-transaction
type Validity struct {
	// Priority of the transaction. Higher is included first.
	Priority uint64
	// Requires tags that must be provided by other transactions first.
	Requires [][]byte
	// Provides tags this transaction makes available.
	Provides [][]byte
	// Longevity is the number of blocks the transaction stays valid for.
	Longevity uint64
	// Propagate indicates whether the transaction is gossiped to peers.
	Propagate bool
}

// NewValidity returns Validity
func NewValidity(priority uint64, requires, provides [][]byte, longevity uint64, propagate bool) *Validity {
	return &Validity{
		Priority:  priority,
		Requires:  requires,
		Provides:  provides,
		Longevity: longevity,
		Propagate: propagate,
	}
}

// DefaultValidity returns the neutral element for Combine:
// no priority, no tags, maximum longevity and propagated.
func DefaultValidity() Validity {
	return Validity{
		Longevity: MaxLongevity,
		Propagate: true,
	}
}

// Combine merges two validities. Priorities are added (saturating),
// tags are concatenated, the shortest longevity wins and the
// transaction is only propagated if both allow it.
func (v Validity) Combine(other Validity) Validity {
	priority := v.Priority + other.Priority
	if priority < v.Priority {
		priority = math.MaxUint64
	}

	longevity := v.Longevity
	if other.Longevity < longevity {
		longevity = other.Longevity
	}

	return Validity{
		Priority:  priority,
		Requires:  concatTags(v.Requires, other.Requires),
		Provides:  concatTags(v.Provides, other.Provides),
		Longevity: longevity,
		Propagate: v.Propagate && other.Propagate,
	}
}

func concatTags(a, b [][]byte) (tags [][]byte) {
	if len(a)+len(b) == 0 {
		return nil
	}
	tags = make([][]byte, 0, len(a)+len(b))
	tags = append(tags, a...)
	return append(tags, b...)
}
