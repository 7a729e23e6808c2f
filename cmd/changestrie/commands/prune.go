// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/changestrie"
	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPruneCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune the changes tries older than the retained blocks",
		Long: `prune deletes the changes tries of the blocks after the last pruned block
and up to the anchor block number minus the retained blocks.
Nodes shared with a retained changes trie are kept.`,
		RunE: execPrune,
	}

	if err := addUint64FlagBindViper(cmd, AnchorNumberFlag, 0,
		"number of the anchor block", AnchorNumberFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", AnchorNumberFlag, err)
	}

	if err := addStringFlagBindViper(cmd, AnchorHashFlag, "",
		"hex encoded hash of the anchor block", AnchorHashFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", AnchorHashFlag, err)
	}

	return cmd, nil
}

// execPrune executes the prune command
func execPrune(cmd *cobra.Command, _ []string) error {
	anchor := changestrie.AnchorBlockID{
		Number: viper.GetUint64(AnchorNumberFlag),
	}

	if anchorHash := viper.GetString(AnchorHashFlag); anchorHash != "" {
		hash, err := common.HexToHash(anchorHash)
		if err != nil {
			return fmt.Errorf("parsing anchor hash: %w", err)
		}
		anchor.Hash = hash
	}

	storage, closeStorage, err := openStorage()
	if err != nil {
		return err
	}
	defer closeStorage()

	config := changestrie.PrunerConfig{
		RetainBlocks:      viper.GetUint64(RetainBlocksFlag),
		BloomFilterSizeMB: viper.GetUint64(BloomSizeFlag),
	}
	pruner, err := changestrie.NewPruner(storage, config, logger)
	if err != nil {
		return fmt.Errorf("creating pruner: %w", err)
	}

	logger.Infof("pruning changes tries with anchor block %s, retaining %d blocks",
		anchor, config.RetainBlocks)

	result, err := pruner.Prune(anchor)
	if err != nil {
		return fmt.Errorf("failed to prune: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
