// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Prune(t *testing.T) {
	t.Parallel()

	t.Run("range_without_changes_tries", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage, _ := newInMemoryFixture(t)
		pruned := collectPruned(storage, 20, 30, NewMockLogger(ctrl))

		assert.Empty(t, pruned)
		assert.NotZero(t, storage.NodeCount())
	})

	t.Run("prune_first_block", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage, roots := newInMemoryFixture(t)
		pruned := collectPruned(storage, 60, 65, NewMockLogger(ctrl))
		require.NotEmpty(t, pruned)
		assert.Contains(t, pruned, roots.block65)
		for _, outside := range []common.Hash{roots.block66, roots.block67, roots.child67, roots.block68} {
			assert.NotContains(t, pruned, outside)
		}

		storage.Remove(pruned)
		assert.NotZero(t, storage.NodeCount())
		assert.Equal(t, 3, storage.Blocks())

		root, err := storage.Root(testAnchor, 65)
		require.NoError(t, err)
		assert.Nil(t, root)

		root, err = storage.Root(testAnchor, 66)
		require.NoError(t, err)
		assert.Equal(t, &roots.block66, root)
	})

	t.Run("prune_all_blocks", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage, _ := newInMemoryFixture(t)
		pruned := collectPruned(storage, 60, 70, NewMockLogger(ctrl))

		storage.Remove(pruned)
		assert.Zero(t, storage.NodeCount())
		assert.Zero(t, storage.Blocks())

		pruned = collectPruned(storage, 60, 70, NewMockLogger(ctrl))
		assert.Empty(t, pruned)
	})

	t.Run("child_trie_pruned_before_top_trie", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage, roots := newInMemoryFixture(t)
		pruned := collectPruned(storage, 67, 67, NewMockLogger(ctrl))

		childIndex := slices.Index(pruned, roots.child67)
		topIndex := slices.Index(pruned, roots.block67)
		require.NotEqual(t, -1, childIndex)
		require.NotEqual(t, -1, topIndex)
		assert.Less(t, childIndex, topIndex)

		storage.Remove(pruned)
		child, err := storage.Get(roots.child67)
		require.NoError(t, err)
		assert.Nil(t, child)
		assert.Equal(t, 3, storage.Blocks())
	})

	t.Run("blocks_pruned_in_ascending_order", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage, roots := newInMemoryFixture(t)
		pruned := collectPruned(storage, 65, 68, NewMockLogger(ctrl))

		assert.Less(t, slices.Index(pruned, roots.block65), slices.Index(pruned, roots.block66))
		assert.Less(t, slices.Index(pruned, roots.block66), slices.Index(pruned, roots.block67))
		assert.Less(t, slices.Index(pruned, roots.block67), slices.Index(pruned, roots.block68))
	})

	t.Run("first_above_last", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		pruned := collectPruned(NewMockStorage(ctrl), 10, 9, NewMockLogger(ctrl))
		assert.Empty(t, pruned)
	})

	t.Run("root_read_error_skips_block", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		errTest := errors.New("test error")
		storage := NewMockStorage(ctrl)
		storage.EXPECT().Root(testAnchor, uint64(5)).Return(nil, errTest)
		storage.EXPECT().Root(testAnchor, uint64(6)).Return(nil, nil)
		logger := NewMockLogger(ctrl)
		logger.EXPECT().Warnf("failed to read changes trie root of block %d from database: %s",
			uint64(5), errTest)

		pruned := collectPruned(storage, 5, 6, logger)
		assert.Empty(t, pruned)
	})

	t.Run("last_block_is_max", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		storage := NewMockStorage(ctrl)
		storage.EXPECT().Root(testAnchor, uint64(math.MaxUint64-1)).Return(nil, nil)
		storage.EXPECT().Root(testAnchor, uint64(math.MaxUint64)).Return(nil, nil)

		pruned := collectPruned(storage, math.MaxUint64-1, math.MaxUint64, NewMockLogger(ctrl))
		assert.Empty(t, pruned)
	})

	t.Run("missing_root_node", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		missingRoot := common.Hash{1}
		storage := NewInMemoryStorage()
		storage.Insert(5, missingRoot, memorydb.New())

		logger := NewMockLogger(ctrl)
		logger.EXPECT().Warnf("failed to read child tries of block %d: %s", uint64(5), gomock.Any())
		logger.EXPECT().Warnf("failed to record all nodes of changes trie %s: %s", missingRoot, gomock.Any())

		pruned := collectPruned(storage, 5, 5, logger)
		assert.Equal(t, []common.Hash{missingRoot}, pruned)
	})
}
