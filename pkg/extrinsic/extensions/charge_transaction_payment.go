// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extensions

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
	"github.com/ChainSafe/gossamer-primitives/pkg/extrinsic"
)

// ErrUnexpectedPre is returned when post-dispatch receives a pre value
// it did not produce.
var ErrUnexpectedPre = errors.New("unexpected pre-dispatch value")

// Currency moves balances between accounts.
type Currency interface {
	FreeBalance(who extrinsic.AccountID) (balance uint64, err error)
	Withdraw(who extrinsic.AccountID, amount uint64) error
	Deposit(who extrinsic.AccountID, amount uint64) error
}

// FeeParams are the parameters of the fee formula.
type FeeParams struct {
	Base      uint64
	PerWeight uint64
	PerByte   uint64
}

// Fee returns base + weight*perWeight + length*perByte + tip, saturating.
// Only the tip is charged for extrinsics not paying fees.
func (fp FeeParams) Fee(info extrinsic.DispatchInfo, length uint, tip uint64) (fee uint64) {
	if info.PaysFee == extrinsic.PaysNo {
		return tip
	}
	fee = fp.Base
	fee = saturatingAdd(fee, saturatingMul(info.Weight, fp.PerWeight))
	fee = saturatingAdd(fee, saturatingMul(uint64(length), fp.PerByte))
	return saturatingAdd(fee, tip)
}

// ChargeTransactionPayment charges the fee of signed extrinsics to their signer
// and deposits it to the fee collector once dispatched. The tip is the priority.
// Unsigned extrinsics pay nothing.
type ChargeTransactionPayment[C any] struct {
	extrinsic.NoopExtension[C]
	Tip       uint64
	params    FeeParams
	currency  Currency
	collector extrinsic.AccountID
}

// NewChargeTransactionPayment returns a ChargeTransactionPayment extension.
func NewChargeTransactionPayment[C any](tip uint64, params FeeParams, currency Currency,
	collector extrinsic.AccountID) *ChargeTransactionPayment[C] {
	return &ChargeTransactionPayment[C]{
		Tip:       tip,
		params:    params,
		currency:  currency,
		collector: collector,
	}
}

// Identifier returns "ChargeTransactionPayment".
func (*ChargeTransactionPayment[C]) Identifier() string { return "ChargeTransactionPayment" }

type paymentPre struct {
	who extrinsic.AccountID
	fee uint64
}

// Validate checks the signer can afford the fee.
func (ctp *ChargeTransactionPayment[C]) Validate(who extrinsic.AccountID, _ C,
	info extrinsic.DispatchInfo, length uint) (validity transaction.Validity, err error) {
	_, err = ctp.affordableFee(who, info, length)
	if err != nil {
		return validity, err
	}

	return transaction.Validity{
		Priority:  ctp.Tip,
		Longevity: transaction.MaxLongevity,
		Propagate: true,
	}, nil
}

// PreDispatch withdraws the fee from the signer.
func (ctp *ChargeTransactionPayment[C]) PreDispatch(who extrinsic.AccountID, _ C,
	info extrinsic.DispatchInfo, length uint) (extrinsic.Pre, error) {
	fee, err := ctp.affordableFee(who, info, length)
	if err != nil {
		return nil, err
	}

	err = ctp.currency.Withdraw(who, fee)
	if err != nil {
		return nil, fmt.Errorf("%w: withdrawing fee: %w",
			transaction.NewInvalidTransaction(transaction.Payment), err)
	}
	return paymentPre{who: who, fee: fee}, nil
}

// PostDispatch deposits the withdrawn fee to the fee collector,
// whether the call succeeded or not.
func (ctp *ChargeTransactionPayment[C]) PostDispatch(pre extrinsic.Pre, _ extrinsic.DispatchInfo,
	_ uint, _ error) error {
	if pre == nil {
		return nil
	}

	payment, ok := pre.(paymentPre)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedPre, pre)
	}

	if payment.fee == 0 {
		return nil
	}

	err := ctp.currency.Deposit(ctp.collector, payment.fee)
	if err != nil {
		return fmt.Errorf("depositing fee of %s: %w", payment.who, err)
	}
	return nil
}

func (ctp *ChargeTransactionPayment[C]) affordableFee(who extrinsic.AccountID,
	info extrinsic.DispatchInfo, length uint) (fee uint64, err error) {
	fee = ctp.params.Fee(info, length, ctp.Tip)
	if fee == 0 {
		return 0, nil
	}

	balance, err := ctp.currency.FreeBalance(who)
	if err != nil {
		return 0, fmt.Errorf("%w: getting balance: %w",
			transaction.NewUnknownTransaction(transaction.CannotLookup), err)
	}

	if balance < fee {
		return 0, transaction.NewInvalidTransaction(transaction.Payment)
	}
	return fee, nil
}
