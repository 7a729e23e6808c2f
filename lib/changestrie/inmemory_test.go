// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemoryStorage(t *testing.T) {
	t.Parallel()

	storage, roots := newInMemoryFixture(t)
	assert.Equal(t, 4, storage.Blocks())

	root, err := storage.Root(AnchorBlockID{}, 67)
	require.NoError(t, err)
	assert.Equal(t, &roots.block67, root)

	encoding, err := storage.Get(roots.child67)
	require.NoError(t, err)
	assert.NotEmpty(t, encoding)

	nodeCount := storage.NodeCount()
	storage.Remove(nil)
	assert.Equal(t, nodeCount, storage.NodeCount())
}
