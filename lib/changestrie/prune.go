// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/recorder"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Logger is the logger used by the pruning functions.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
}

// Prune calls onRemove for every node of the changes tries of the blocks
// from first to last included, resolving their roots against the anchor
// block. The nodes of the child tries of a block are emitted before the
// nodes of its top trie, and blocks are pruned in ascending order.
// A node may be emitted more than once.
//
// A block whose root cannot be read is logged and skipped, and a block
// without changes trie is skipped. Prune never removes anything itself.
func Prune(storage Storage, first, last uint64, anchor AnchorBlockID,
	onRemove func(hash common.Hash), logger Logger) {
	if first > last {
		return
	}

	for block := first; ; block++ {
		pruneBlock(storage, block, anchor, onRemove, logger)
		if block == last {
			return
		}
	}
}

// pruneBlock emits the nodes of the changes tries of the block and
// returns false if the block was skipped or one of its tries could
// not be walked entirely.
func pruneBlock(storage Storage, block uint64, anchor AnchorBlockID,
	onRemove func(hash common.Hash), logger Logger) (complete bool) {
	root, err := storage.Root(anchor, block)
	if err != nil {
		logger.Warnf("failed to read changes trie root of block %d from database: %s", block, err)
		skippedBlocksTotal.Inc()
		return false
	} else if root == nil {
		return true
	}

	complete = true
	childRoots, err := childTrieRoots(storage, *root, block, logger)
	if err != nil {
		// the child roots found so far are still pruned.
		logger.Warnf("failed to read child tries of block %d: %s", block, err)
		complete = false
	}

	for _, childRoot := range childRoots {
		if !pruneTrie(storage, childRoot, onRemove, logger) {
			complete = false
		}
	}

	if !pruneTrie(storage, *root, onRemove, logger) {
		complete = false
	}
	prunedBlocksTotal.Inc()
	return complete
}

// childTrieRoots returns the roots of the child tries referenced
// by the ChildIndex entries of the top trie of the block.
func childTrieRoots(storage Storage, root common.Hash, block uint64, logger Logger) (
	childRoots []common.Hash, err error) {
	err = trie.WalkPrefix(storage, root, ChildIndexPrefix(block), func(key, value []byte) error {
		inputKey, err := DecodeInputKey(key)
		if err != nil {
			logger.Debugf("ignoring changes trie key 0x%x: %s", key, err)
			return nil
		}

		if _, ok := inputKey.(ChildIndex); !ok {
			return nil
		}

		var childRoot []byte
		err = scale.Unmarshal(value, &childRoot)
		if err != nil || len(childRoot) != common.HashLength {
			logger.Debugf("ignoring child index value 0x%x of block %d", value, block)
			return nil
		}

		childRoots = append(childRoots, common.NewHash(childRoot))
		return nil
	})
	if err != nil {
		return childRoots, fmt.Errorf("walking child index entries: %w", err)
	}
	return childRoots, nil
}

// pruneTrie emits the root and every node of the trie, and returns
// false if a node is missing.
func pruneTrie(storage Storage, root common.Hash, onRemove func(hash common.Hash), logger Logger) (complete bool) {
	proofRecorder := recorder.NewRecorder()
	err := proofRecorder.RecordAll(storage, root)
	if err != nil {
		logger.Warnf("failed to record all nodes of changes trie %s: %s", root, err)
	}

	onRemove(root)
	records := proofRecorder.Drain()
	for _, record := range records {
		onRemove(record.Hash)
	}
	prunedNodesTotal.Add(float64(len(records)))
	return err == nil
}
