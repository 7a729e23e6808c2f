// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package extrinsic implements the validation and application pipeline
// of extrinsics whose signature was already checked.
//
// A CheckedExtrinsic is validated by the transaction pool with Validate
// and applied by the block executor with Apply. Both run the ordered
// extension chain carried by the extrinsic, and unsigned extrinsics are
// additionally gated by an UnsignedValidator for their call type.
package extrinsic
