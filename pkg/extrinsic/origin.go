// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import "fmt"

// Call is a dispatchable call executed with an origin of type O.
// A returned error is a dispatch error: the call ran and failed.
type Call[O any] interface {
	Dispatch(origin O) error
}

// OriginFactory builds the dispatch origin from the optional signer
// of an extrinsic. A nil signer means the extrinsic is unsigned.
type OriginFactory[O any] func(signer *AccountID) O

// RawOriginKind is the kind of a RawOrigin.
type RawOriginKind uint8

const (
	// RootOrigin is the system origin with all privileges.
	RootOrigin RawOriginKind = iota
	// SignedOrigin is the origin of an extrinsic signed by an account.
	SignedOrigin
	// NoneOrigin is the origin of unsigned extrinsics and inherents.
	NoneOrigin
)

// RawOrigin is the basic origin of the system module.
type RawOrigin struct {
	Kind RawOriginKind
	// Who is only set for the SignedOrigin kind.
	Who AccountID
}

// NewRawOrigin is the OriginFactory for RawOrigin.
func NewRawOrigin(signer *AccountID) RawOrigin {
	if signer == nil {
		return RawOrigin{Kind: NoneOrigin}
	}
	return RawOrigin{Kind: SignedOrigin, Who: *signer}
}

func (o RawOrigin) String() string {
	switch o.Kind {
	case RootOrigin:
		return "root"
	case SignedOrigin:
		return "signed(" + o.Who.String() + ")"
	case NoneOrigin:
		return "none"
	default:
		return fmt.Sprintf("unknown origin kind %d", uint8(o.Kind))
	}
}
