// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// encodedNode is an encoded node with its Merkle value.
type encodedNode struct {
	encoding    []byte
	merkleValue []byte
}

// encodeNode encodes the node and its descendants, calling onHashed
// for each encoded node which is referenced by hash.
// The root node is always hashed.
func encodeNode(n *node, isRoot bool, onHashed func(hash common.Hash, encoding []byte) error) (
	encoded encodedNode, err error) {
	buffer := bytes.NewBuffer(nil)

	err = encodeHeader(n, buffer)
	if err != nil {
		return encoded, fmt.Errorf("encoding header: %w", err)
	}

	_, err = buffer.Write(nibblesToKeyLE(n.partialKey))
	if err != nil {
		return encoded, fmt.Errorf("writing partial key: %w", err)
	}

	branch := n.isBranch()
	if branch {
		bitmap := n.childrenBitmap()
		_, err = buffer.Write([]byte{byte(bitmap), byte(bitmap >> 8)})
		if err != nil {
			return encoded, fmt.Errorf("writing children bitmap: %w", err)
		}
	}

	// Only encode node value if the node is a leaf or
	// the node is a branch with a value.
	if !branch || n.value != nil {
		err = scale.NewEncoder(buffer).Encode(n.value)
		if err != nil {
			return encoded, fmt.Errorf("scale encoding value: %w", err)
		}
	}

	for i, child := range n.children {
		if child == nil {
			continue
		}

		encodedChild, err := encodeNode(child, false, onHashed)
		if err != nil {
			return encoded, fmt.Errorf("encoding child at index %d: %w", i, err)
		}

		err = scale.NewEncoder(buffer).Encode(encodedChild.merkleValue)
		if err != nil {
			return encoded, fmt.Errorf("scale encoding child Merkle value at index %d: %w", i, err)
		}
	}

	encoded.encoding = buffer.Bytes()
	if !isRoot && len(encoded.encoding) < common.HashLength {
		encoded.merkleValue = encoded.encoding
		return encoded, nil
	}

	hash, err := common.Blake2bHash(encoded.encoding)
	if err != nil {
		return encoded, fmt.Errorf("hashing node: %w", err)
	}
	encoded.merkleValue = hash.ToBytes()

	if onHashed != nil {
		err = onHashed(hash, encoded.encoding)
		if err != nil {
			return encoded, err
		}
	}
	return encoded, nil
}
