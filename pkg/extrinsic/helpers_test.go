// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import (
	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
)

type journal struct {
	entries []string
}

func (j *journal) add(entry string) {
	j.entries = append(j.entries, entry)
}

type testCall struct {
	journal *journal
	err     error
}

func (c *testCall) Dispatch(origin RawOrigin) error {
	c.journal.add("dispatch " + origin.String())
	return c.err
}

type testExtension struct {
	NoopExtension[*testCall]
	id      string
	journal *journal

	validity    transaction.Validity
	validateErr error
	pre         Pre
	preErr      error
	postErr     error

	gotPre         Pre
	gotDispatchErr error
}

func (e *testExtension) Identifier() string { return e.id }

func (e *testExtension) Validate(who AccountID, _ *testCall, _ DispatchInfo, _ uint) (
	transaction.Validity, error) {
	e.journal.add(e.id + " validate " + who.String())
	return e.validity, e.validateErr
}

func (e *testExtension) ValidateUnsigned(*testCall, DispatchInfo, uint) (transaction.Validity, error) {
	e.journal.add(e.id + " validate unsigned")
	return e.validity, e.validateErr
}

func (e *testExtension) PreDispatch(who AccountID, _ *testCall, _ DispatchInfo, _ uint) (Pre, error) {
	e.journal.add(e.id + " pre-dispatch " + who.String())
	return e.pre, e.preErr
}

func (e *testExtension) PreDispatchUnsigned(*testCall, DispatchInfo, uint) (Pre, error) {
	e.journal.add(e.id + " pre-dispatch unsigned")
	return e.pre, e.preErr
}

func (e *testExtension) PostDispatch(pre Pre, _ DispatchInfo, _ uint, dispatchErr error) error {
	e.journal.add(e.id + " post-dispatch")
	e.gotPre = pre
	e.gotDispatchErr = dispatchErr
	return e.postErr
}

type testUnsignedValidator struct {
	journal     *journal
	validity    transaction.Validity
	validateErr error
	preErr      error
}

func (v *testUnsignedValidator) ValidateUnsigned(*testCall) (transaction.Validity, error) {
	v.journal.add("gate validate")
	return v.validity, v.validateErr
}

func (v *testUnsignedValidator) PreDispatch(*testCall) error {
	v.journal.add("gate pre-dispatch")
	return v.preErr
}
