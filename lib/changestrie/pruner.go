// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/recorder"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrBloomFilterSize is returned when the keep filter size is zero.
var ErrBloomFilterSize = errors.New("bloom filter size cannot be zero")

// PrunerConfig configures the changes tries pruner.
type PrunerConfig struct {
	// RetainBlocks is the number of blocks below the anchor block
	// whose changes tries are kept.
	RetainBlocks uint64
	// BloomFilterSizeMB is the size in megabytes of the filter
	// holding the nodes of the retained changes tries.
	BloomFilterSizeMB uint64
}

// PruneResult summarises a pruning run.
type PruneResult struct {
	// First and Last are the block numbers walked, both included.
	// They are only meaningful if Pruned is true.
	First, Last uint64
	Pruned      bool
	Blocks      int
	Nodes       int
	Kept        int
	// Skipped is the number of blocks whose changes trie could not be
	// read entirely. They are left in the database and walked again by
	// the next run.
	Skipped int
}

func (r PruneResult) String() string {
	if !r.Pruned {
		return "nothing to prune"
	}
	s := fmt.Sprintf("pruned blocks %d to %d: %d roots, %d nodes deleted, %d nodes kept",
		r.First, r.Last, r.Blocks, r.Nodes, r.Kept)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d blocks skipped", r.Skipped)
	}
	return s
}

// Pruner deletes from the database the changes tries of the blocks
// older than the retained window, remembering the last pruned block.
type Pruner struct {
	storage *DatabaseStorage
	config  PrunerConfig
	logger  Logger
	mutex   sync.Mutex
}

// NewPruner creates a pruner for the storage given.
func NewPruner(storage *DatabaseStorage, config PrunerConfig, logger Logger) (*Pruner, error) {
	if config.BloomFilterSizeMB == 0 {
		return nil, ErrBloomFilterSize
	}

	return &Pruner{
		storage: storage,
		config:  config,
		logger:  logger,
	}, nil
}

// Prune deletes the changes tries of the blocks after the last pruned
// block and up to the anchor block number minus the retained blocks.
// Nodes still referenced by a retained changes trie are kept.
// A block whose changes trie cannot be read entirely keeps its root and
// nodes, and the last pruned block stops before it.
func (p *Pruner) Prune(anchor AnchorBlockID) (result PruneResult, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if anchor.Number < p.config.RetainBlocks {
		return result, nil
	}
	last := anchor.Number - p.config.RetainBlocks

	var first uint64
	lastPruned, ok, err := p.storage.LastPruned()
	if err != nil {
		return result, fmt.Errorf("getting last pruned block: %w", err)
	} else if ok {
		if lastPruned >= last {
			return result, nil
		}
		first = lastPruned + 1
	}

	removed := mapset.NewThreadUnsafeSet[common.Hash]()
	skipped := mapset.NewThreadUnsafeSet[uint64]()
	var incompleteNodes []common.Hash
	for block := first; ; block++ {
		var blockNodes []common.Hash
		complete := pruneBlock(p.storage, block, anchor, func(hash common.Hash) {
			blockNodes = append(blockNodes, hash)
		}, p.logger)
		if complete {
			removed.Append(blockNodes...)
		} else {
			skipped.Add(block)
			incompleteNodes = append(incompleteNodes, blockNodes...)
		}

		if block == last {
			break
		}
	}

	keep, err := p.retainedNodes(anchor, last+1)
	if err != nil {
		return result, fmt.Errorf("building keep filter: %w", err)
	}
	for _, hash := range incompleteNodes {
		err = keep.put(hash.ToBytes())
		if err != nil {
			return result, err
		}
	}

	batch := p.storage.NewPruneBatch()
	defer batch.Close()

	kept := 0
	for hash := range removed.Iter() {
		if keep.contains(hash.ToBytes()) {
			p.logger.Debugf("keeping node %s shared with a retained changes trie", hash)
			kept++
			continue
		}

		err = batch.DeleteNode(hash)
		if err != nil {
			return result, err
		}
	}

	roots, _ := p.storage.Roots(first, last)
	blocks := 0
	for _, blockRoot := range roots {
		if skipped.Contains(blockRoot.Block) {
			continue
		}
		err = batch.DeleteRoot(blockRoot.Block)
		if err != nil {
			return result, err
		}
		blocks++
	}

	lowestSkipped, anySkipped := lowest(skipped)
	switch {
	case !anySkipped:
		err = batch.SetLastPruned(last)
	case lowestSkipped > first:
		err = batch.SetLastPruned(lowestSkipped - 1)
	}
	if err != nil {
		return result, err
	}

	err = batch.Flush()
	if err != nil {
		p.logger.Criticalf("failed to flush prune batch of blocks %d to %d: %s", first, last, err)
		return result, fmt.Errorf("flushing prune batch: %w", err)
	}
	keptNodesTotal.Add(float64(kept))

	return PruneResult{
		First:   first,
		Last:    last,
		Pruned:  true,
		Blocks:  blocks,
		Nodes:   batch.NodeCount(),
		Kept:    kept,
		Skipped: skipped.Cardinality(),
	}, nil
}

func lowest(blocks mapset.Set[uint64]) (block uint64, ok bool) {
	for b := range blocks.Iter() {
		if !ok || b < block {
			block, ok = b, true
		}
	}
	return block, ok
}

// retainedNodes returns a filter containing every node of the changes
// tries of the blocks from first to the anchor block included.
// Retained tries that cannot be read entirely contribute the nodes
// reached.
func (p *Pruner) retainedNodes(anchor AnchorBlockID, first uint64) (keep *keepFilter, err error) {
	keep, err = newKeepFilter(p.config.BloomFilterSizeMB)
	if err != nil {
		return nil, err
	}

	if first > anchor.Number {
		return keep, nil
	}

	roots, invalid := p.storage.Roots(first, anchor.Number)
	for _, block := range invalid {
		p.logger.Warnf("ignoring invalid changes trie root of retained block %d", block)
	}

	for _, blockRoot := range roots {
		tries, err := childTrieRoots(p.storage, blockRoot.Root, blockRoot.Block, p.logger)
		if err != nil {
			p.logger.Warnf("failed to read child tries of retained block %d: %s", blockRoot.Block, err)
		}
		tries = append(tries, blockRoot.Root)

		for _, root := range tries {
			proofRecorder := recorder.NewRecorder()
			err = proofRecorder.RecordAll(p.storage, root)
			if err != nil {
				p.logger.Warnf("failed to record changes trie %s of retained block %d: %s",
					root, blockRoot.Block, err)
			}

			err = keep.put(root.ToBytes())
			if err != nil {
				return nil, err
			}
			for _, record := range proofRecorder.Drain() {
				err = keep.put(record.Hash.ToBytes())
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return keep, nil
}
