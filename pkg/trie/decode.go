// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

var (
	ErrReadChildrenBitmap  = errors.New("cannot read children bitmap")
	ErrDecodeValue         = errors.New("cannot decode value")
	ErrDecodeChildMerkle   = errors.New("cannot decode child Merkle value")
	ErrReaderMismatchCount = errors.New("read unexpected number of bytes from reader")
)

// decodedNode is a node decoded from its encoding. Its children
// are Merkle values: a 32 bytes hash, or the inlined child encoding.
type decodedNode struct {
	partialKey []byte
	value      []byte
	children   [ChildrenCapacity][]byte
}

// decodeNode decodes a node encoding.
func decodeNode(encoding []byte) (decoded decodedNode, err error) {
	reader := bytes.NewReader(encoding)

	variant, partialKeyLength, err := decodeHeader(reader)
	if err != nil {
		return decoded, fmt.Errorf("decoding header: %w", err)
	}

	decoded.partialKey, err = decodeKey(reader, partialKeyLength)
	if err != nil {
		return decoded, fmt.Errorf("decoding key: %w", err)
	}

	var bitmap uint16
	if variant != leafHeader {
		bitmapBytes := make([]byte, 2)
		_, err = io.ReadFull(reader, bitmapBytes)
		if err != nil {
			return decoded, fmt.Errorf("%w: %s", ErrReadChildrenBitmap, err)
		}
		bitmap = uint16(bitmapBytes[0]) | uint16(bitmapBytes[1])<<8
	}

	decoder := scale.NewDecoder(reader)

	if variant != branchHeader {
		var value []byte
		err = decoder.Decode(&value)
		if err != nil {
			return decoded, fmt.Errorf("%w: %s", ErrDecodeValue, err)
		}
		if value == nil {
			value = []byte{}
		}
		decoded.value = value
	}

	for i := 0; i < ChildrenCapacity; i++ {
		if (bitmap>>uint(i))&1 == 0 {
			continue
		}

		var merkleValue []byte
		err = decoder.Decode(&merkleValue)
		if err != nil {
			return decoded, fmt.Errorf("%w: at index %d: %s", ErrDecodeChildMerkle, i, err)
		}
		decoded.children[i] = merkleValue
	}

	return decoded, nil
}

func decodeKey(reader io.Reader, partialKeyLength uint16) (nibbles []byte, err error) {
	if partialKeyLength == 0 {
		return []byte{}, nil
	}

	key := make([]byte, partialKeyLength/2+partialKeyLength%2)
	n, err := io.ReadFull(reader, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %d bytes instead of expected %d bytes: %s",
			ErrReaderMismatchCount, n, len(key), err)
	}

	// if the partial key length is odd, the first
	// nibble is padding and is discarded.
	return keyToNibbles(key)[partialKeyLength%2:], nil
}
