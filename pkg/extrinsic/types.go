// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import "fmt"

// AccountID is the 32 bytes identifier of an account.
type AccountID [32]byte

func (a AccountID) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

// DispatchClass is the class of a dispatchable call.
type DispatchClass uint8

const (
	// Normal is the class of user transactions.
	Normal DispatchClass = iota
	// Operational is the class of calls operating the network.
	Operational
	// Mandatory is the class of calls that must be included in a block,
	// such as inherents. Block limits do not apply to them.
	Mandatory
)

func (d DispatchClass) String() string {
	switch d {
	case Normal:
		return "normal"
	case Operational:
		return "operational"
	case Mandatory:
		return "mandatory"
	default:
		return fmt.Sprintf("unknown dispatch class %d", uint8(d))
	}
}

// Pays indicates whether the caller pays fees for a call.
type Pays uint8

const (
	// PaysYes means the transaction pays fees.
	PaysYes Pays = iota
	// PaysNo means the transaction is free.
	PaysNo
)

// DispatchInfo describes the resources a call consumes. It is
// interpreted by the extensions only.
type DispatchInfo struct {
	Weight  uint64
	Class   DispatchClass
	PaysFee Pays
}
