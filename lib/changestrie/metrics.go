// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prunedNodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "primitives_changes_trie",
		Name:      "pruned_nodes_total",
		Help:      "total number of changes trie nodes emitted for removal",
	})
	prunedBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "primitives_changes_trie",
		Name:      "pruned_blocks_total",
		Help:      "total number of blocks whose changes trie was pruned",
	})
	skippedBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "primitives_changes_trie",
		Name:      "skipped_blocks_total",
		Help:      "total number of blocks skipped because their changes trie root could not be read",
	})
	keptNodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "primitives_changes_trie",
		Name:      "kept_nodes_total",
		Help:      "total number of pruned nodes kept because they belong to a retained changes trie",
	})
)
