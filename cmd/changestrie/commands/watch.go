// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChainSafe/gossamer-primitives/internal/metrics"
	"github.com/ChainSafe/gossamer-primitives/lib/changestrie"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names of the watch command.
const (
	IntervalFlag       = "interval"
	MetricsAddressFlag = "metrics-address"
)

func newWatchCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically prune the changes tries",
		Long: `watch prunes the changes tries at every interval, using the highest
block with a stored changes trie as anchor block, until interrupted.
Metrics are served on the metrics address if it is not empty.`,
		RunE: execWatch,
	}

	if err := addDurationFlagBindViper(cmd, IntervalFlag, time.Minute,
		"interval between two pruning rounds", IntervalFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", IntervalFlag, err)
	}

	if err := addStringFlagBindViper(cmd, MetricsAddressFlag, "localhost:9876",
		"listening address of the metrics server, empty to disable", MetricsAddressFlag); err != nil {
		return nil, fmt.Errorf("failed to add --%s flag: %s", MetricsAddressFlag, err)
	}

	return cmd, nil
}

// execWatch executes the watch command
func execWatch(cmd *cobra.Command, _ []string) error {
	interval := viper.GetDuration(IntervalFlag)
	if interval <= 0 {
		return fmt.Errorf("--%s must be positive", IntervalFlag)
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

	if address := viper.GetString(MetricsAddressFlag); address != "" {
		server := metrics.NewServer(address)
		err = server.Start()
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer func() {
			err := server.Stop()
			if err != nil {
				logger.Errorf("failed to stop metrics server: %s", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, storage, pruner, interval)
}

// watch prunes the changes tries at every interval until ctx is canceled.
func watch(ctx context.Context, storage *changestrie.DatabaseStorage,
	pruner *changestrie.Pruner, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := pruneLatest(storage, pruner)
		if err != nil {
			return err
		}
		if result.Pruned {
			logger.Info(result.String())
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pruneLatest prunes the changes tries using the highest block
// with a stored changes trie as anchor block.
func pruneLatest(storage *changestrie.DatabaseStorage, pruner *changestrie.Pruner) (
	result changestrie.PruneResult, err error) {
	var first uint64
	lastPruned, ok, err := storage.LastPruned()
	if err != nil {
		return result, err
	} else if ok {
		first = lastPruned + 1
	}

	roots, _ := storage.Roots(first, math.MaxUint64)
	if len(roots) == 0 {
		return result, nil
	}

	anchor := changestrie.AnchorBlockID{Number: roots[len(roots)-1].Block}
	result, err = pruner.Prune(anchor)
	if err != nil {
		return result, fmt.Errorf("failed to prune with anchor block %s: %w", anchor, err)
	}
	return result, nil
}
