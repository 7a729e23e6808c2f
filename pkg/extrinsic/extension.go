// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
)

// Pre is the opaque value an extension produces in pre-dispatch
// and receives back in post-dispatch.
type Pre any

// Extension is a hook attached to an extrinsic, contributing validity
// checks and pre and post dispatch side effects for a call of type C.
// An extension instance belongs to exactly one extrinsic.
type Extension[C any] interface {
	// Identifier returns a unique name for the extension.
	Identifier() string
	// Validate validates a signed extrinsic without mutating state.
	Validate(who AccountID, call C, info DispatchInfo, length uint) (transaction.Validity, error)
	// ValidateUnsigned validates an unsigned extrinsic without mutating state.
	ValidateUnsigned(call C, info DispatchInfo, length uint) (transaction.Validity, error)
	// PreDispatch runs before a signed extrinsic is dispatched.
	PreDispatch(who AccountID, call C, info DispatchInfo, length uint) (Pre, error)
	// PreDispatchUnsigned runs before an unsigned extrinsic is dispatched.
	PreDispatchUnsigned(call C, info DispatchInfo, length uint) (Pre, error)
	// PostDispatch runs after the call was dispatched, whether the call
	// succeeded or not. dispatchErr is the error returned by the call.
	PostDispatch(pre Pre, info DispatchInfo, length uint, dispatchErr error) error
}

// NoopExtension implements every Extension method except Identifier
// as a no-op, and can be embedded by extensions only overriding some hooks.
type NoopExtension[C any] struct{}

// Validate returns the default validity.
func (NoopExtension[C]) Validate(AccountID, C, DispatchInfo, uint) (transaction.Validity, error) {
	return transaction.DefaultValidity(), nil
}

// ValidateUnsigned returns the default validity.
func (NoopExtension[C]) ValidateUnsigned(C, DispatchInfo, uint) (transaction.Validity, error) {
	return transaction.DefaultValidity(), nil
}

// PreDispatch does nothing.
func (NoopExtension[C]) PreDispatch(AccountID, C, DispatchInfo, uint) (Pre, error) {
	return nil, nil //nolint:nilnil
}

// PreDispatchUnsigned does nothing.
func (NoopExtension[C]) PreDispatchUnsigned(C, DispatchInfo, uint) (Pre, error) {
	return nil, nil //nolint:nilnil
}

// PostDispatch does nothing.
func (NoopExtension[C]) PostDispatch(Pre, DispatchInfo, uint, error) error {
	return nil
}

// ExtensionChain is the ordered list of extensions of an extrinsic.
// The order is fixed by the chain configuration.
type ExtensionChain[C any] []Extension[C]

// Validate validates a signed extrinsic against every extension in order,
// combining their validities. It stops at the first failing extension.
func (ec ExtensionChain[C]) Validate(who AccountID, call C, info DispatchInfo, length uint) (
	validity transaction.Validity, err error) {
	validity = transaction.DefaultValidity()
	for _, extension := range ec {
		extensionValidity, err := extension.Validate(who, call, info, length)
		if err != nil {
			return transaction.Validity{}, fmt.Errorf("%s: %w", extension.Identifier(), err)
		}
		validity = validity.Combine(extensionValidity)
	}
	return validity, nil
}

// ValidateUnsigned validates an unsigned extrinsic against every extension in order,
// combining their validities. It stops at the first failing extension.
func (ec ExtensionChain[C]) ValidateUnsigned(call C, info DispatchInfo, length uint) (
	validity transaction.Validity, err error) {
	validity = transaction.DefaultValidity()
	for _, extension := range ec {
		extensionValidity, err := extension.ValidateUnsigned(call, info, length)
		if err != nil {
			return transaction.Validity{}, fmt.Errorf("%s: %w", extension.Identifier(), err)
		}
		validity = validity.Combine(extensionValidity)
	}
	return validity, nil
}

// PreDispatch runs the pre-dispatch hook of every extension in order and
// returns their pre values in the same order. It stops at the first failure,
// in which case no post-dispatch hook must run.
func (ec ExtensionChain[C]) PreDispatch(who AccountID, call C, info DispatchInfo, length uint) (
	pres []Pre, err error) {
	pres = make([]Pre, len(ec))
	for i, extension := range ec {
		pres[i], err = extension.PreDispatch(who, call, info, length)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", extension.Identifier(), err)
		}
	}
	return pres, nil
}

// PreDispatchUnsigned is PreDispatch for unsigned extrinsics.
func (ec ExtensionChain[C]) PreDispatchUnsigned(call C, info DispatchInfo, length uint) (
	pres []Pre, err error) {
	pres = make([]Pre, len(ec))
	for i, extension := range ec {
		pres[i], err = extension.PreDispatchUnsigned(call, info, length)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", extension.Identifier(), err)
		}
	}
	return pres, nil
}

// PostDispatch runs the post-dispatch hook of every extension with the pre
// value it produced. Every hook runs even if a previous one failed, and
// the errors are joined.
func (ec ExtensionChain[C]) PostDispatch(pres []Pre, info DispatchInfo, length uint, dispatchErr error) error {
	if len(pres) != len(ec) {
		panic(fmt.Sprintf("got %d pre values for %d extensions", len(pres), len(ec)))
	}

	var errs []error
	for i, extension := range ec {
		err := extension.PostDispatch(pres[i], info, length, dispatchErr)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", extension.Identifier(), err))
		}
	}
	return errors.Join(errs...)
}

// Identifiers returns the identifiers of the extensions in order.
func (ec ExtensionChain[C]) Identifiers() (identifiers []string) {
	identifiers = make([]string, len(ec))
	for i, extension := range ec {
		identifiers[i] = extension.Identifier()
	}
	return identifiers
}
