// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"
	"io"
)

// Node variants, see https://spec.polkadot.network/#defn-node-header
const (
	leafHeader            byte = 1 // 01
	branchHeader          byte = 2 // 10
	branchWithValueHeader byte = 3 // 11
)

const (
	keyLenOffset        = 0x3f
	nodeHeaderShift     = 6
	maxPartialKeyLength = ^uint16(0)
)

var (
	ErrPartialKeyTooBig = errors.New("partial key length cannot be larger than 2^16")
	ErrUnknownNodeType  = errors.New("unknown node type")
	ErrReadHeaderByte   = errors.New("cannot read header byte")
)

// encodeHeader writes the header of the node, which contains
// its variant and its partial key length.
func encodeHeader(n *node, writer io.Writer) (err error) {
	var header byte
	switch {
	case !n.isBranch():
		header = leafHeader
	case n.value == nil:
		header = branchHeader
	default:
		header = branchWithValueHeader
	}
	header <<= nodeHeaderShift

	if len(n.partialKey) < keyLenOffset {
		header |= byte(len(n.partialKey))
		_, err = writer.Write([]byte{header})
		return err
	}

	header |= keyLenOffset
	_, err = writer.Write([]byte{header})
	if err != nil {
		return err
	}

	return encodeKeyLength(len(n.partialKey), writer)
}

func encodeKeyLength(keyLength int, writer io.Writer) (err error) {
	if keyLength > int(maxPartialKeyLength) {
		return fmt.Errorf("%w: %d", ErrPartialKeyTooBig, keyLength)
	}

	keyLength -= keyLenOffset
	for {
		if keyLength < 255 {
			_, err = writer.Write([]byte{byte(keyLength)})
			return err
		}

		_, err = writer.Write([]byte{255})
		if err != nil {
			return err
		}
		keyLength -= 255
	}
}

// decodeHeader reads the node variant and the partial key length.
func decodeHeader(reader io.ByteReader) (variant byte, partialKeyLength uint16, err error) {
	header, err := reader.ReadByte()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrReadHeaderByte, err)
	}

	variant = header >> nodeHeaderShift
	switch variant {
	case leafHeader, branchHeader, branchWithValueHeader:
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownNodeType, variant)
	}

	length := int(header & keyLenOffset)
	if length < keyLenOffset {
		return variant, uint16(length), nil
	}

	for {
		next, err := reader.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("reading key length: %w", err)
		}

		length += int(next)
		if length > int(maxPartialKeyLength) {
			return 0, 0, fmt.Errorf("%w: %d", ErrPartialKeyTooBig, length)
		}

		if next < 255 {
			return variant, uint16(length), nil
		}
	}
}
