// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extensions

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
	"github.com/ChainSafe/gossamer-primitives/pkg/extrinsic"
)

// BlockWeight holds the weight consumed by the block being built.
type BlockWeight interface {
	BlockWeight() (weight uint64, err error)
	SetBlockWeight(weight uint64) error
}

// WeightLimits are the weight limits of a block.
type WeightLimits struct {
	MaxBlock     uint64
	MaxExtrinsic uint64
}

// CheckWeight keeps the block weight within its limits.
// Mandatory extrinsics are never rejected.
type CheckWeight[C any] struct {
	extrinsic.NoopExtension[C]
	limits WeightLimits
	store  BlockWeight
}

// NewCheckWeight returns a CheckWeight extension.
func NewCheckWeight[C any](limits WeightLimits, store BlockWeight) *CheckWeight[C] {
	return &CheckWeight[C]{
		limits: limits,
		store:  store,
	}
}

// Identifier returns "CheckWeight".
func (*CheckWeight[C]) Identifier() string { return "CheckWeight" }

// Validate rejects extrinsics heavier than the extrinsic weight limit.
func (cw *CheckWeight[C]) Validate(_ extrinsic.AccountID, _ C, info extrinsic.DispatchInfo, _ uint) (
	transaction.Validity, error) {
	return cw.validate(info)
}

// ValidateUnsigned is Validate for unsigned extrinsics.
func (cw *CheckWeight[C]) ValidateUnsigned(_ C, info extrinsic.DispatchInfo, _ uint) (
	transaction.Validity, error) {
	return cw.validate(info)
}

// PreDispatch accrues the extrinsic weight to the block weight.
func (cw *CheckWeight[C]) PreDispatch(_ extrinsic.AccountID, _ C, info extrinsic.DispatchInfo, _ uint) (
	extrinsic.Pre, error) {
	return nil, cw.accrue(info)
}

// PreDispatchUnsigned is PreDispatch for unsigned extrinsics.
func (cw *CheckWeight[C]) PreDispatchUnsigned(_ C, info extrinsic.DispatchInfo, _ uint) (
	extrinsic.Pre, error) {
	return nil, cw.accrue(info)
}

func (cw *CheckWeight[C]) validate(info extrinsic.DispatchInfo) (transaction.Validity, error) {
	if info.Class != extrinsic.Mandatory && info.Weight > cw.limits.MaxExtrinsic {
		return transaction.Validity{}, transaction.NewInvalidTransaction(transaction.ExhaustsResources)
	}
	return transaction.DefaultValidity(), nil
}

func (cw *CheckWeight[C]) accrue(info extrinsic.DispatchInfo) error {
	_, err := cw.validate(info)
	if err != nil {
		return err
	}

	current, err := cw.store.BlockWeight()
	if err != nil {
		return fmt.Errorf("%w: getting block weight: %w",
			transaction.NewUnknownTransaction(transaction.CannotLookup), err)
	}

	next := saturatingAdd(current, info.Weight)
	if info.Class != extrinsic.Mandatory && next > cw.limits.MaxBlock {
		return transaction.NewInvalidTransaction(transaction.ExhaustsResources)
	}

	err = cw.store.SetBlockWeight(next)
	if err != nil {
		return fmt.Errorf("setting block weight: %w", err)
	}
	return nil
}
