// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
)

// AnchorBlockID identifies the block against which
// changes trie roots are resolved.
type AnchorBlockID struct {
	Hash   common.Hash
	Number uint64
}

func (a AnchorBlockID) String() string {
	return fmt.Sprintf("#%d (%s)", a.Number, a.Hash.Short())
}

// Storage gives read access to the changes trie roots and nodes.
type Storage interface {
	// Root returns the changes trie root of the block, as seen from
	// the anchor block, or nil if the block has no changes trie.
	Root(anchor AnchorBlockID, block uint64) (root *common.Hash, err error)
	// Get returns the encoding of the trie node with the given hash,
	// or nil if there is no such node.
	Get(hash common.Hash) (encoding []byte, err error)
}
