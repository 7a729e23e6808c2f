// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"
)

// InvalidTransactionKind is the reason a transaction is invalid.
type InvalidTransactionKind uint8

const (
	// Call the call of the transaction is not expected.
	Call InvalidTransactionKind = iota
	// Payment general error to do with the inability to pay some fees
	// (e.g. account balance too low).
	Payment
	// Future general error to do with the transaction not yet being valid
	// (e.g. nonce too high).
	Future
	// Stale general error to do with the transaction being outdated
	// (e.g. nonce too low).
	Stale
	// BadProof general error to do with the transaction's proofs (e.g. signature).
	BadProof
	// AncientBirthBlock the transaction birth block is ancient.
	AncientBirthBlock
	// ExhaustsResources the transaction would exhaust the resources of current block.
	ExhaustsResources
	// InvalidCustom any other custom invalid validity that is not covered.
	InvalidCustom
	// BadMandatory an extrinsic with a mandatory dispatch resulted in an error.
	BadMandatory
	// MandatoryDispatch a transaction with a mandatory dispatch.
	MandatoryDispatch
)

func (k InvalidTransactionKind) String() string {
	switch k {
	case Call:
		return "call of the transaction is not expected"
	case Payment:
		return "invalid payment"
	case Future:
		return "invalid transaction"
	case Stale:
		return "outdated transaction"
	case BadProof:
		return "bad proof"
	case AncientBirthBlock:
		return "ancient birth block"
	case ExhaustsResources:
		return "exhausts resources"
	case InvalidCustom:
		return "custom invalid transaction"
	case BadMandatory:
		return "mandatory dispatch error"
	case MandatoryDispatch:
		return "invalid mandatory dispatch"
	default:
		return fmt.Sprintf("unknown invalid transaction kind %d", uint8(k))
	}
}

// InvalidTransaction is returned when a transaction is invalid.
type InvalidTransaction struct {
	Kind InvalidTransactionKind
	// Custom is only set for the InvalidCustom kind.
	Custom uint8
}

// NewInvalidTransaction returns an invalid transaction error of the given kind.
func NewInvalidTransaction(kind InvalidTransactionKind) *InvalidTransaction {
	return &InvalidTransaction{Kind: kind}
}

// NewInvalidCustom returns a custom invalid transaction error.
func NewInvalidCustom(custom uint8) *InvalidTransaction {
	return &InvalidTransaction{Kind: InvalidCustom, Custom: custom}
}

// Index returns the variant index of the error.
func (e *InvalidTransaction) Index() uint {
	return uint(e.Kind)
}

func (e *InvalidTransaction) Error() string {
	if e.Kind == InvalidCustom {
		return fmt.Sprintf("%s: %d", e.Kind, e.Custom)
	}
	return e.Kind.String()
}

// Is returns true if target is an *InvalidTransaction of the same kind.
func (e *InvalidTransaction) Is(target error) bool {
	other, ok := target.(*InvalidTransaction)
	if !ok {
		return false
	}
	return other.Kind == e.Kind && other.Custom == e.Custom
}

// UnknownTransactionKind is the reason the validity of a transaction is unknown.
type UnknownTransactionKind uint8

const (
	// CannotLookup could not lookup some information that is required
	// to validate the transaction.
	CannotLookup UnknownTransactionKind = iota
	// NoUnsignedValidator no validator found for the given unsigned transaction.
	NoUnsignedValidator
	// UnknownCustom any other custom unknown validity that is not covered.
	UnknownCustom
)

func (k UnknownTransactionKind) String() string {
	switch k {
	case CannotLookup:
		return "lookup failed"
	case NoUnsignedValidator:
		return "validator not found"
	case UnknownCustom:
		return "custom unknown transaction"
	default:
		return fmt.Sprintf("unknown transaction kind %d", uint8(k))
	}
}

// UnknownTransaction is returned when the validity of a transaction
// cannot be determined.
type UnknownTransaction struct {
	Kind UnknownTransactionKind
	// Custom is only set for the UnknownCustom kind.
	Custom uint8
}

// NewUnknownTransaction returns an unknown transaction error of the given kind.
func NewUnknownTransaction(kind UnknownTransactionKind) *UnknownTransaction {
	return &UnknownTransaction{Kind: kind}
}

// Index returns the variant index of the error.
func (e *UnknownTransaction) Index() uint {
	return uint(e.Kind)
}

func (e *UnknownTransaction) Error() string {
	if e.Kind == UnknownCustom {
		return fmt.Sprintf("%s: %d", e.Kind, e.Custom)
	}
	return e.Kind.String()
}

// Is returns true if target is an *UnknownTransaction of the same kind.
func (e *UnknownTransaction) Is(target error) bool {
	other, ok := target.(*UnknownTransaction)
	if !ok {
		return false
	}
	return other.Kind == e.Kind && other.Custom == e.Custom
}

// IsInvalid returns true if the error chain contains an *InvalidTransaction.
func IsInvalid(err error) bool {
	var invalid *InvalidTransaction
	return errors.As(err, &invalid)
}

// IsUnknown returns true if the error chain contains an *UnknownTransaction.
func IsUnknown(err error) bool {
	var unknown *UnknownTransaction
	return errors.As(err, &unknown)
}
