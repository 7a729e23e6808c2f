// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"io"
	"math"

	"github.com/ChainSafe/gossamer-primitives/lib/changestrie"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/recorder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootsCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Print the stored changes trie roots",
		RunE:  execRoots,
	}

	if err := addUint64FlagBindViper(cmd, FromFlag, 0,
		"first block number", FromFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", FromFlag, err)
	}

	if err := addUint64FlagBindViper(cmd, ToFlag, 0,
		"last block number, 0 for no limit", ToFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", ToFlag, err)
	}

	if err := addBoolFlagBindViper(cmd, KeysFlag, false,
		"also print the keys of each top changes trie", KeysFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", KeysFlag, err)
	}

	return cmd, nil
}

// execRoots executes the roots command
func execRoots(cmd *cobra.Command, _ []string) error {
	from, to := viper.GetUint64(FromFlag), viper.GetUint64(ToFlag)
	if to == 0 {
		to = math.MaxUint64
	} else if from > to {
		return fmt.Errorf("--%s %d is above --%s %d", FromFlag, from, ToFlag, to)
	}

	storage, closeStorage, err := openStorage()
	if err != nil {
		return err
	}
	defer closeStorage()

	roots, invalid := storage.Roots(from, to)
	for _, block := range invalid {
		logger.Warnf("block %d has an invalid changes trie root", block)
	}

	lastPruned, ok, err := storage.LastPruned()
	if err != nil {
		return err
	}
	if ok {
		logger.Debugf("last pruned block is %d", lastPruned)
	}

	printKeys := viper.GetBool(KeysFlag)
	for _, root := range roots {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "#%d %s\n", root.Block, root.Root)
		if err != nil {
			return err
		}

		if printKeys {
			err = printTrieKeys(cmd.OutOrStdout(), storage, root)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// printTrieKeys prints the keys of the top changes trie of the block,
// in key order.
func printTrieKeys(writer io.Writer, storage *changestrie.DatabaseStorage,
	root changestrie.BlockRoot) error {
	proofRecorder := recorder.NewRecorder(recorder.WithKeys())
	err := proofRecorder.RecordAll(storage, root.Root)
	if err != nil {
		logger.Warnf("changes trie of block %d is incomplete: %s", root.Block, err)
	}
	logger.Debugf("read %d nodes of the changes trie of block %d", proofRecorder.Len(), root.Block)

	for _, key := range proofRecorder.RecordedKeys() {
		_, err = fmt.Fprintf(writer, "  0x%x\n", key)
		if err != nil {
			return err
		}
	}
	return nil
}
