// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/internal/database"
	"github.com/ChainSafe/gossamer-primitives/internal/log"
	"github.com/ChainSafe/gossamer-primitives/lib/changestrie"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables overriding flags.
const EnvPrefix = "CHTRIE"

// Flag names, which are also the viper keys.
const (
	ConfigFlag       = "config"
	DBPathFlag       = "db-path"
	LogLevelFlag     = "log-level"
	CacheSizeFlag    = "cache-size"
	RetainBlocksFlag = "retain-blocks"
	AnchorNumberFlag = "anchor-number"
	AnchorHashFlag   = "anchor-hash"
	BloomSizeFlag    = "bloom-size"
	FromFlag         = "from"
	ToFlag           = "to"
	KeysFlag         = "keys"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// NewRootCommand creates the root command
func NewRootCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "changestrie",
		Short: "Inspect and prune the changes tries of a database",
		Long: `changestrie operates on the changes tries stored in a pebble database.
Usage:
	changestrie roots --db-path ./db --from 100 --to 200
	changestrie prune --db-path ./db --anchor-number 1000 --retain-blocks 256
	changestrie watch --db-path ./db --interval 1m --metrics-address localhost:9876`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initEnv(EnvPrefix)
			err := configureViper()
			if err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}

			level, err := log.ParseLevel(viper.GetString(LogLevelFlag))
			if err != nil {
				return fmt.Errorf("parsing log level: %w", err)
			}
			logger = log.NewFromGlobal(
				log.AddContext("pkg", "cmd"),
				log.SetLevel(level),
				log.SetWriter(cmd.ErrOrStderr()),
			)
			return nil
		},
	}

	if err := addRootFlags(cmd); err != nil {
		return nil, err
	}

	pruneCmd, err := newPruneCommand()
	if err != nil {
		return nil, fmt.Errorf("creating prune command: %w", err)
	}

	rootsCmd, err := newRootsCommand()
	if err != nil {
		return nil, fmt.Errorf("creating roots command: %w", err)
	}

	watchCmd, err := newWatchCommand()
	if err != nil {
		return nil, fmt.Errorf("creating watch command: %w", err)
	}

	cmd.AddCommand(pruneCmd, rootsCmd, watchCmd)
	return cmd, nil
}

// addRootFlags adds the root flags to the command
func addRootFlags(cmd *cobra.Command) error {
	if err := addStringFlagBindViper(cmd, ConfigFlag, "",
		"TOML configuration file", ConfigFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", ConfigFlag, err)
	}

	if err := addStringFlagBindViper(cmd, DBPathFlag, "./db",
		"path to the pebble database", DBPathFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", DBPathFlag, err)
	}

	if err := addStringFlagBindViper(cmd, LogLevelFlag, log.Info.String(),
		"log level (trace, debug, info, warn, error, critical)", LogLevelFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", LogLevelFlag, err)
	}

	if err := addInt64FlagBindViper(cmd, CacheSizeFlag, 64*1024*1024,
		"node cache size in bytes, 0 to disable", CacheSizeFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", CacheSizeFlag, err)
	}

	if err := addUint64FlagBindViper(cmd, RetainBlocksFlag, 256,
		"number of blocks below the anchor block whose changes tries are kept", RetainBlocksFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", RetainBlocksFlag, err)
	}

	if err := addUint64FlagBindViper(cmd, BloomSizeFlag, 16,
		"size in megabytes of the bloom filter holding the retained nodes", BloomSizeFlag); err != nil {
		return fmt.Errorf("failed to add --%s flag: %s", BloomSizeFlag, err)
	}

	return nil
}

// openStorage opens the database at the configured path and
// returns a storage over it, with a function closing both.
func openStorage() (storage *changestrie.DatabaseStorage, closeFn func(), err error) {
	dbPath := viper.GetString(DBPathFlag)
	db, err := database.NewPebble(dbPath, false)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}

	storage, err = changestrie.NewDatabaseStorage(db, viper.GetInt64(CacheSizeFlag))
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("creating storage: %w", err)
	}

	closeFn = func() {
		storage.Close()
		err := db.Close()
		if err != nil {
			logger.Errorf("failed to close database: %s", err)
		}
	}
	return storage, closeFn, nil
}
