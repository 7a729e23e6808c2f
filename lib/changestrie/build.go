// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"fmt"
	"sort"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/memorydb"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Changes are the storage changes of a block. Each changed key maps
// to the indices of the extrinsics which changed it.
type Changes struct {
	Top map[string][]uint32
	// Children maps each child storage key to its changes.
	Children map[string]map[string][]uint32
}

// Build builds the changes trie of the block and its child tries.
// It returns the root of the top trie and a database containing the
// nodes of all the tries. The root is nil if there are no changes.
func Build(block uint64, changes Changes) (root *common.Hash, nodes *memorydb.MemoryDB, err error) {
	nodes = memorydb.New()
	top := trie.NewEmptyTrie()

	childStorageKeys := make([]string, 0, len(changes.Children))
	for storageKey := range changes.Children {
		childStorageKeys = append(childStorageKeys, storageKey)
	}
	sort.Strings(childStorageKeys)

	for _, storageKey := range childStorageKeys {
		childChanges := changes.Children[storageKey]
		if len(childChanges) == 0 {
			continue
		}

		childTrie, err := buildExtrinsicIndexTrie(block, childChanges)
		if err != nil {
			return nil, nil, fmt.Errorf("building child trie %q: %w", storageKey, err)
		}

		childRoot, err := childTrie.Commit(nodes)
		if err != nil {
			return nil, nil, fmt.Errorf("committing child trie %q: %w", storageKey, err)
		}

		key, err := ChildIndex{Block: block, StorageKey: []byte(storageKey)}.Encode()
		if err != nil {
			return nil, nil, err
		}

		value, err := scale.Marshal(childRoot.ToBytes())
		if err != nil {
			return nil, nil, fmt.Errorf("scale encoding child root: %w", err)
		}
		top.Put(key, value)
	}

	err = putExtrinsicIndices(top, block, changes.Top)
	if err != nil {
		return nil, nil, err
	}

	if top.IsEmpty() {
		return nil, nodes, nil
	}

	topRoot, err := top.Commit(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("committing top trie: %w", err)
	}
	return &topRoot, nodes, nil
}

func buildExtrinsicIndexTrie(block uint64, changes map[string][]uint32) (t *trie.Trie, err error) {
	t = trie.NewEmptyTrie()
	err = putExtrinsicIndices(t, block, changes)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func putExtrinsicIndices(t *trie.Trie, block uint64, changes map[string][]uint32) error {
	for key, extrinsics := range changes {
		encodedKey, err := ExtrinsicIndex{Block: block, Key: []byte(key)}.Encode()
		if err != nil {
			return err
		}

		value, err := scale.Marshal(extrinsics)
		if err != nil {
			return fmt.Errorf("scale encoding extrinsic indices: %w", err)
		}
		t.Put(encodedKey, value)
	}
	return nil
}
