// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addStringFlagBindViper adds a string flag to the given command and binds it to the given viper name
func addStringFlagBindViper(cmd *cobra.Command,
	name,
	defaultValue,
	usage,
	viperBindName string,
) error {
	cmd.PersistentFlags().String(name, defaultValue, usage)
	return viper.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addBoolFlagBindViper adds a bool flag to the given command and binds it to the given viper name
func addBoolFlagBindViper(
	cmd *cobra.Command,
	name string,
	defaultValue bool,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Bool(name, defaultValue, usage)
	return viper.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addUint64FlagBindViper adds a uint64 flag to the given command and binds it to the given viper name
func addUint64FlagBindViper(
	cmd *cobra.Command,
	name string,
	defaultValue uint64,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Uint64(name, defaultValue, usage)
	return viper.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addInt64FlagBindViper adds an int64 flag to the given command and binds it to the given viper name
func addInt64FlagBindViper(
	cmd *cobra.Command,
	name string,
	defaultValue int64,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Int64(name, defaultValue, usage)
	return viper.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// addDurationFlagBindViper adds a duration flag to the given command and binds it to the given viper name
func addDurationFlagBindViper(
	cmd *cobra.Command,
	name string,
	defaultValue time.Duration,
	usage string,
	viperBindName string,
) error {
	cmd.PersistentFlags().Duration(name, defaultValue, usage)
	return viper.BindPFlag(viperBindName, cmd.PersistentFlags().Lookup(name))
}

// initEnv sets viper to read environment variables with the given prefix.
func initEnv(prefix string) {
	copyEnvVars(prefix)

	// env variables with CHTRIE prefix (eg. CHTRIE_DB_PATH)
	viper.SetEnvPrefix(prefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// copyEnvVars copies all envs like CHTRIEDB_PATH to CHTRIE_DB_PATH,
// so we can support both formats.
func copyEnvVars(prefix string) {
	prefix = strings.ToUpper(prefix)
	ps := prefix + "_"
	for _, e := range os.Environ() {
		kv := strings.SplitN(e, "=", 2)
		if len(kv) == 2 {
			k, v := kv[0], kv[1]
			if strings.HasPrefix(k, prefix) && !strings.HasPrefix(k, ps) {
				k2 := strings.Replace(k, prefix, ps, 1)
				os.Setenv(k2, v)
			}
		}
	}
}

// configureViper reads the configuration file given with the config flag, if any.
func configureViper() error {
	configFile := viper.GetString(ConfigFlag)
	if configFile == "" {
		return nil
	}

	viper.SetConfigFile(configFile)
	return viper.ReadInConfig()
}
