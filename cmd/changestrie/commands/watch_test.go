// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"context"
	"testing"
	"time"

	"github.com/ChainSafe/gossamer-primitives/internal/database"
	"github.com/ChainSafe/gossamer-primitives/lib/changestrie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPruner(t *testing.T, dbPath string, retainBlocks uint64) (
	*changestrie.DatabaseStorage, *changestrie.Pruner) {
	t.Helper()

	db, err := database.NewPebble(dbPath, false)
	require.NoError(t, err)

	storage, err := changestrie.NewDatabaseStorage(db, 1<<20)
	require.NoError(t, err)

	t.Cleanup(func() {
		storage.Close()
		err := db.Close()
		require.NoError(t, err)
	})

	pruner, err := changestrie.NewPruner(storage, changestrie.PrunerConfig{
		RetainBlocks:      retainBlocks,
		BloomFilterSizeMB: 1,
	}, logger)
	require.NoError(t, err)

	return storage, pruner
}

func Test_pruneLatest(t *testing.T) {
	dbPath, roots := newTestDatabase(t)
	storage, pruner := newTestPruner(t, dbPath, 1)

	result, err := pruneLatest(storage, pruner)
	require.NoError(t, err)
	assert.True(t, result.Pruned)
	assert.Equal(t, uint64(4), result.Last)
	assert.Equal(t, 4, result.Blocks)

	remaining, _ := storage.Roots(0, 10)
	assert.Equal(t, []changestrie.BlockRoot{{Block: 5, Root: roots[5]}}, remaining)

	result, err = pruneLatest(storage, pruner)
	require.NoError(t, err)
	assert.False(t, result.Pruned)
}

func Test_watch(t *testing.T) {
	dbPath, _ := newTestDatabase(t)
	storage, pruner := newTestPruner(t, dbPath, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- watch(ctx, storage, pruner, time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		lastPruned, ok, err := storage.LastPruned()
		return err == nil && ok && lastPruned == 5
	}, time.Second, 5*time.Millisecond)

	cancel()
	err := <-done
	require.NoError(t, err)

	remaining, _ := storage.Roots(0, 10)
	assert.Empty(t, remaining)
}

func Test_watch_deadline(t *testing.T) {
	dbPath, _ := newTestDatabase(t)
	storage, pruner := newTestPruner(t, dbPath, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := watch(ctx, storage, pruner, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
