// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_InvalidTransaction(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("validating: %w", NewInvalidTransaction(Stale))

	assert.EqualError(t, err, "validating: outdated transaction")
	assert.True(t, IsInvalid(err))
	assert.False(t, IsUnknown(err))
	assert.ErrorIs(t, err, NewInvalidTransaction(Stale))
	assert.NotErrorIs(t, err, NewInvalidTransaction(Future))

	var invalid *InvalidTransaction
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, uint(3), invalid.Index())
}

func Test_InvalidCustom(t *testing.T) {
	t.Parallel()

	err := NewInvalidCustom(42)

	assert.EqualError(t, err, "custom invalid transaction: 42")
	assert.Equal(t, uint(7), err.Index())
	assert.ErrorIs(t, err, NewInvalidCustom(42))
	assert.NotErrorIs(t, err, NewInvalidCustom(41))
}

func Test_UnknownTransaction(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("validating unsigned: %w", NewUnknownTransaction(NoUnsignedValidator))

	assert.EqualError(t, err, "validating unsigned: validator not found")
	assert.True(t, IsUnknown(err))
	assert.False(t, IsInvalid(err))
	assert.ErrorIs(t, err, NewUnknownTransaction(NoUnsignedValidator))
}
