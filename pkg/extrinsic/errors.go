// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import "errors"

var (
	// ErrAlreadyApplied is returned when applying an extrinsic a second time.
	ErrAlreadyApplied = errors.New("extrinsic already applied")
	// ErrNoSignature is returned for an extrinsic without signature variant.
	ErrNoSignature = errors.New("extrinsic has no signature variant")
)
