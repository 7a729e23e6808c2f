// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const randomHashString = "0x580d77a9136035a0bc3c3cd86286172f7f81291164c5914266073a30466fba21"

func Test_HexToHash(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		in         string
		hash       Hash
		errWrapped error
	}{
		"too short": {
			in:         "0",
			errWrapped: ErrInvalidFormat,
		},
		"no prefix": {
			in:         "zz",
			errWrapped: ErrNoPrefix,
		},
		"zero value": {
			in: "0x",
		},
		"random hash": {
			in:   randomHashString,
			hash: MustHexToHash(randomHashString),
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hash, err := HexToHash(testCase.in)

			require.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.hash, hash)
		})
	}
}

func Test_Hash_String(t *testing.T) {
	t.Parallel()

	hash := MustHexToHash(randomHashString)
	assert.Equal(t, randomHashString, hash.String())
	assert.Equal(t, "0x580d77a9...466fba21", hash.Short())
	assert.False(t, hash.IsEmpty())
	assert.True(t, EmptyHash.IsEmpty())
}

func Test_HashFromBytes(t *testing.T) {
	t.Parallel()

	_, err := HashFromBytes([]byte{1, 2})
	require.ErrorIs(t, err, ErrHashLength)
	require.EqualError(t, err, "hash length is not 32 bytes: got 2 bytes")

	expected := MustHexToHash(randomHashString)
	hash, err := HashFromBytes(expected.ToBytes())
	require.NoError(t, err)
	assert.Equal(t, expected, hash)
}

func Test_BytesToHash(t *testing.T) {
	t.Parallel()

	hash := BytesToHash([]byte{1})
	expected := Hash{}
	expected[31] = 1
	assert.Equal(t, expected, hash)
}
