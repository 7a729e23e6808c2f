// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Input key variant indices, which are the first byte of the
// encoding of every changes trie key.
const (
	extrinsicIndexVariant byte = 0
	digestIndexVariant    byte = 1
	childIndexVariant     byte = 2
)

var (
	ErrEmptyInputKey          = errors.New("empty input key")
	ErrInputKeyVariantUnknown = errors.New("input key variant unknown")
)

// InputKey is a key of a changes trie. It is one of
// ExtrinsicIndex, DigestIndex or ChildIndex.
type InputKey interface {
	Encode() ([]byte, error)
	Index() byte
}

// ExtrinsicIndex is the key of the extrinsic indices
// which changed the storage key Key in block Block.
// Its value is the SCALE encoding of []uint32.
type ExtrinsicIndex struct {
	Block uint64
	Key   []byte
}

// Index returns the variant index of ExtrinsicIndex.
func (ExtrinsicIndex) Index() byte { return extrinsicIndexVariant }

// Encode returns the SCALE encoding of the key, prefixed by its variant index.
func (ei ExtrinsicIndex) Encode() ([]byte, error) {
	return encodeInputKey(ei.Index(), inputKeyFields{Block: ei.Block, Key: ei.Key})
}

// DigestIndex is the key of the block numbers which changed
// the storage key Key within the digest interval ending at Block.
// Its value is the SCALE encoding of []uint64.
type DigestIndex struct {
	Block uint64
	Key   []byte
}

// Index returns the variant index of DigestIndex.
func (DigestIndex) Index() byte { return digestIndexVariant }

// Encode returns the SCALE encoding of the key, prefixed by its variant index.
func (di DigestIndex) Encode() ([]byte, error) {
	return encodeInputKey(di.Index(), inputKeyFields{Block: di.Block, Key: di.Key})
}

// ChildIndex is the key of the root of the changes child trie
// of the child storage StorageKey in block Block.
// Its value is the SCALE encoding of the root hash as a byte slice.
type ChildIndex struct {
	Block      uint64
	StorageKey []byte
}

// Index returns the variant index of ChildIndex.
func (ChildIndex) Index() byte { return childIndexVariant }

// Encode returns the SCALE encoding of the key, prefixed by its variant index.
func (ci ChildIndex) Encode() ([]byte, error) {
	return encodeInputKey(ci.Index(), inputKeyFields{Block: ci.Block, Key: ci.StorageKey})
}

// ChildIndexPrefix returns the prefix common to all the ChildIndex keys
// of the given block, regardless of their storage key.
func ChildIndexPrefix(block uint64) (prefix []byte) {
	prefix = make([]byte, 1+8)
	prefix[0] = childIndexVariant
	binary.LittleEndian.PutUint64(prefix[1:], block)
	return prefix
}

// inputKeyFields is the SCALE layout shared by all input key variants.
type inputKeyFields struct {
	Block uint64
	Key   []byte
}

func encodeInputKey(variant byte, fields inputKeyFields) (encoded []byte, err error) {
	encoded, err = scale.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("scale encoding input key: %w", err)
	}
	return append([]byte{variant}, encoded...), nil
}

// DecodeInputKey decodes an encoded changes trie key.
func DecodeInputKey(encoded []byte) (key InputKey, err error) {
	if len(encoded) == 0 {
		return nil, ErrEmptyInputKey
	}

	variant := encoded[0]
	switch variant {
	case extrinsicIndexVariant, digestIndexVariant, childIndexVariant:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInputKeyVariantUnknown, variant)
	}

	var fields inputKeyFields
	err = scale.Unmarshal(encoded[1:], &fields)
	if err != nil {
		return nil, fmt.Errorf("scale decoding input key: %w", err)
	}

	switch variant {
	case extrinsicIndexVariant:
		return ExtrinsicIndex{Block: fields.Block, Key: fields.Key}, nil
	case digestIndexVariant:
		return DigestIndex{Block: fields.Block, Key: fields.Key}, nil
	default:
		return ChildIndex{Block: fields.Block, StorageKey: fields.Key}, nil
	}
}
