// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the profile-search CLI. It runs
// profile-aware searches from the command line, serves them over HTTP and
// reports on recorded search history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/logging"
	"github.com/pdiddy/profile-search/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is built from log.level once the config is read.
	logger = zap.NewNop()
)

// rootCmd is the base command for the profile-search CLI.
var rootCmd = &cobra.Command{
	Use:   "profile-search",
	Short: "Profile-aware search across web, encyclopedia and shopping sources",
	Long: `profile-search routes a query through a search strategy chosen by the
user profile (researcher, student, business, shopping or default). The query is
expanded into sub-queries, sent concurrently to the web, encyclopedia and
shopping adapters, and the merged results are deduplicated, ranked and
truncated.

Use "search" for one-off queries, "serve" for the HTTP API, and "history" to
inspect recorded searches.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := s.Keys()
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		dev, _ := cmd.Flags().GetBool("dev-log")
		l, err := logging.New(logging.Config{
			Service:     "profile-search",
			Level:       viper.GetString("log.level"),
			Development: dev,
		})
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./profile-search.yaml or ~/.config/profile-search/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("dev-log", false, "human-readable console logs")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Values from .env seed the environment before viper reads it.
	if err := secrets.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("profile-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "profile-search"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("PROFILE_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
