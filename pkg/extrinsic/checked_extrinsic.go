// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/internal/log"
	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "extrinsic"))

// ApplyOutcome is the result of an extrinsic which passed pre-dispatch
// and was dispatched.
type ApplyOutcome struct {
	// Signer is the signer of the extrinsic, nil if unsigned.
	Signer *AccountID
	// DispatchError is the error returned by the call itself.
	DispatchError error
}

// Succeeded returns true if the call dispatched without error.
func (ao ApplyOutcome) Succeeded() bool {
	return ao.DispatchError == nil
}

// CheckedExtrinsic is an extrinsic whose signature, if any, was already checked.
// It can only be applied once.
type CheckedExtrinsic[O any, C Call[O]] struct {
	Signature Signature[C]
	Function  C

	applied bool
}

// NewCheckedExtrinsic returns a CheckedExtrinsic for the given signature and call.
func NewCheckedExtrinsic[O any, C Call[O]](signature Signature[C], function C) *CheckedExtrinsic[O, C] {
	return &CheckedExtrinsic[O, C]{
		Signature: signature,
		Function:  function,
	}
}

// Sender returns the signer of the extrinsic, and false if it is not signed.
func (ce *CheckedExtrinsic[O, C]) Sender() (who AccountID, ok bool) {
	signed, ok := ce.Signature.(Signed[C])
	if !ok {
		return who, false
	}
	return signed.Who, true
}

// Validate validates the extrinsic without mutating any state.
// Signed extrinsics are validated by their extension chain only.
// Detached extrinsics must pass both their extension chain and the
// unsigned validator, and their validities are combined.
// Inherents are always valid with InherentValidity.
func (ce *CheckedExtrinsic[O, C]) Validate(info DispatchInfo, length uint,
	unsigned UnsignedValidator[C]) (validity transaction.Validity, err error) {
	validity, err = ce.validate(info, length, unsigned)
	validatedTotal.WithLabelValues(validationOutcome(err)).Inc()
	return validity, err
}

// Submit validates the extrinsic and inserts its encoding with the
// resulting validity into the pool. Nothing is inserted if the
// extrinsic is invalid.
func (ce *CheckedExtrinsic[O, C]) Submit(pool *transaction.Pool, encoding []byte,
	info DispatchInfo, length uint, unsigned UnsignedValidator[C]) (hash common.Hash, err error) {
	validity, err := ce.Validate(info, length, unsigned)
	if err != nil {
		return hash, err
	}

	hash = pool.Insert(transaction.NewValidTransaction(encoding, validity))
	logger.Debugf("added extrinsic %s to the pool with priority %d", hash, validity.Priority)
	return hash, nil
}

func (ce *CheckedExtrinsic[O, C]) validate(info DispatchInfo, length uint,
	unsigned UnsignedValidator[C]) (validity transaction.Validity, err error) {
	switch signature := ce.Signature.(type) {
	case Inherent[C]:
		return InherentValidity(), nil
	case Signed[C]:
		return signature.Extra.Validate(signature.Who, ce.Function, info, length)
	case Detached[C]:
		validity, err = signature.Extra.ValidateUnsigned(ce.Function, info, length)
		if err != nil {
			return transaction.Validity{}, err
		}

		if unsigned == nil {
			return transaction.Validity{}, transaction.NewUnknownTransaction(transaction.NoUnsignedValidator)
		}

		unsignedValidity, err := unsigned.ValidateUnsigned(ce.Function)
		if err != nil {
			return transaction.Validity{}, fmt.Errorf("validating unsigned call: %w", err)
		}
		return validity.Combine(unsignedValidity), nil
	default:
		return transaction.Validity{}, fmt.Errorf("%w: %T", ErrNoSignature, ce.Signature)
	}
}

// Apply runs the pre-dispatch hooks, dispatches the call with the origin
// built by originOf, and runs the post-dispatch hooks.
//
// A pre-dispatch failure is returned as an error, in which case the call is
// not dispatched and no post-dispatch hook runs. Otherwise the post-dispatch
// hooks run whether the call succeeded or not, and the call error is
// returned in the ApplyOutcome. Inherents are dispatched without any hook.
// An extrinsic can only be applied once, further calls return ErrAlreadyApplied.
func (ce *CheckedExtrinsic[O, C]) Apply(info DispatchInfo, length uint,
	unsigned UnsignedValidator[C], originOf OriginFactory[O]) (outcome ApplyOutcome, err error) {
	if ce.applied {
		return outcome, ErrAlreadyApplied
	}
	ce.applied = true

	var (
		extra ExtensionChain[C]
		pres  []Pre
	)

	switch signature := ce.Signature.(type) {
	case Inherent[C]:
		outcome.DispatchError = ce.Function.Dispatch(originOf(nil))
		appliedTotal.WithLabelValues(dispatchOutcome(outcome.DispatchError)).Inc()
		return outcome, nil
	case Signed[C]:
		extra = signature.Extra
		pres, err = extra.PreDispatch(signature.Who, ce.Function, info, length)
		if err != nil {
			appliedTotal.WithLabelValues(outcomePreDispatch).Inc()
			return outcome, fmt.Errorf("pre-dispatching: %w", err)
		}
		who := signature.Who
		outcome.Signer = &who
	case Detached[C]:
		extra = signature.Extra
		pres, err = extra.PreDispatchUnsigned(ce.Function, info, length)
		if err != nil {
			appliedTotal.WithLabelValues(outcomePreDispatch).Inc()
			return outcome, fmt.Errorf("pre-dispatching unsigned: %w", err)
		}

		if unsigned == nil {
			err = transaction.NewUnknownTransaction(transaction.NoUnsignedValidator)
		} else {
			err = unsigned.PreDispatch(ce.Function)
		}
		if err != nil {
			appliedTotal.WithLabelValues(outcomePreDispatch).Inc()
			return outcome, fmt.Errorf("pre-dispatching unsigned call: %w", err)
		}
	default:
		return outcome, fmt.Errorf("%w: %T", ErrNoSignature, ce.Signature)
	}

	outcome.DispatchError = ce.Function.Dispatch(originOf(outcome.Signer))

	err = extra.PostDispatch(pres, info, length, outcome.DispatchError)
	if err != nil {
		logger.Warnf("post-dispatching extensions %v: %s", extra.Identifiers(), err)
	}

	appliedTotal.WithLabelValues(dispatchOutcome(outcome.DispatchError)).Inc()
	return outcome, nil
}

func dispatchOutcome(dispatchErr error) string {
	if dispatchErr != nil {
		return outcomeCallFailed
	}
	return outcomeSuccess
}
