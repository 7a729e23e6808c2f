// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// HashLength is the expected length of the common.Hash type
const HashLength = 32

// EmptyHash is the zero value hash.
var EmptyHash = Hash{}

var (
	ErrNoPrefix      = errors.New("could not byteify non 0x prefixed string")
	ErrHashLength    = errors.New("hash length is not 32 bytes")
	ErrInvalidFormat = errors.New("invalid hash format")
)

// Hash used to store a blake2b hash
type Hash [HashLength]byte

// NewHash casts a byte slice to a Hash.
// If the input is longer than 32 bytes, it takes the first 32 bytes.
func NewHash(in []byte) (res Hash) {
	copy(res[:], in)
	return res
}

// ToBytes turns a hash to a byte slice
func (h Hash) ToBytes() []byte {
	b := [HashLength]byte(h)
	return b[:]
}

// IsEmpty returns true if the hash is empty, false otherwise.
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// String returns the hex string for the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Short returns the first 4 bytes and the last 4 bytes of the hex string for the hash
func (h Hash) Short() string {
	const nBytes = 4
	return fmt.Sprintf("0x%x...%x", h[:nBytes], h[len(h)-nBytes:])
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HashFromBytes converts a byte slice of exactly 32 bytes into a Hash.
func HashFromBytes(b []byte) (h Hash, err error) {
	if len(b) != HashLength {
		return h, fmt.Errorf("%w: got %d bytes", ErrHashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HexToHash turns a 0x prefixed hex string into type Hash
func HexToHash(in string) (Hash, error) {
	if len(in) < 2 {
		return Hash{}, ErrInvalidFormat
	}
	if !strings.HasPrefix(in, "0x") {
		return Hash{}, ErrNoPrefix
	}

	out, err := hex.DecodeString(in[2:])
	if err != nil {
		return Hash{}, fmt.Errorf("decoding hex: %w", err)
	}

	return NewHash(out), nil
}

// MustHexToHash turns a 0x prefixed hex string into type Hash.
// It panics if it cannot turn the string into a Hash.
func MustHexToHash(in string) Hash {
	h, err := HexToHash(in)
	if err != nil {
		panic(err)
	}
	return h
}
