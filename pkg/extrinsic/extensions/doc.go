// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package extensions contains the common extensions of an extrinsic
// extension chain: replay protection, block weight accounting and fees.
package extensions
