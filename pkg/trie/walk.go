// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
)

// ErrIncompleteDB is returned when a node referenced by hash
// cannot be found in the node database.
var ErrIncompleteDB = errors.New("incomplete database")

// WalkPrefix calls fn for every key value of the stored trie with the
// given root hash whose key starts with prefix, in key order.
// Nodes are loaded by hash from the database, and only the nodes on the
// path to the prefix and below it are loaded.
func WalkPrefix(db NodeGetter, root common.Hash, prefix []byte,
	fn func(key, value []byte) error) (err error) {
	if root == EmptyHash {
		return nil
	}

	encoding, err := loadNode(db, root)
	if err != nil {
		return err
	}

	return walkStored(db, encoding, nil, keyToNibbles(prefix), fn)
}

// Walk calls fn for every key value of the stored trie, loading all its nodes.
func Walk(db NodeGetter, root common.Hash, fn func(key, value []byte) error) (err error) {
	return WalkPrefix(db, root, nil, fn)
}

func loadNode(db NodeGetter, hash common.Hash) (encoding []byte, err error) {
	encoding, err = db.Get(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: getting node %s: %w", ErrIncompleteDB, hash, err)
	} else if encoding == nil {
		return nil, fmt.Errorf("%w: node %s not found", ErrIncompleteDB, hash)
	}
	return encoding, nil
}

func walkStored(db NodeGetter, encoding, parentKey, prefix []byte,
	fn func(key, value []byte) error) (err error) {
	decoded, err := decodeNode(encoding)
	if err != nil {
		return fmt.Errorf("decoding node: %w", err)
	}

	commonLength := lenCommonPrefix(decoded.partialKey, prefix)
	if commonLength < len(prefix) && commonLength < len(decoded.partialKey) {
		return nil
	}

	fullKey := concatNibbles(parentKey, decoded.partialKey)

	if len(prefix) > len(decoded.partialKey) {
		childIndex := prefix[len(decoded.partialKey)]
		return walkChild(db, decoded.children[childIndex], fullKey, childIndex,
			prefix[len(decoded.partialKey)+1:], fn)
	}

	if decoded.value != nil && len(fullKey)%2 == 0 {
		err = fn(nibblesToKey(fullKey), decoded.value)
		if err != nil {
			return err
		}
	}

	for i, merkleValue := range decoded.children {
		err = walkChild(db, merkleValue, fullKey, byte(i), nil, fn)
		if err != nil {
			return err
		}
	}
	return nil
}

func walkChild(db NodeGetter, merkleValue, parentKey []byte, childIndex byte,
	prefix []byte, fn func(key, value []byte) error) (err error) {
	if merkleValue == nil {
		return nil
	}

	encoding := merkleValue
	if len(merkleValue) == common.HashLength {
		encoding, err = loadNode(db, common.NewHash(merkleValue))
		if err != nil {
			return err
		}
	}

	childKey := concatNibbles(parentKey, []byte{childIndex})
	err = walkStored(db, encoding, childKey, prefix, fn)
	if err != nil {
		return fmt.Errorf("walking child at index %d: %w", childIndex, err)
	}
	return nil
}
