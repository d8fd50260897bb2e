// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/history"
	"github.com/pdiddy/profile-search/internal/metrics"
	"github.com/pdiddy/profile-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve exposes POST /v1/search, GET /health and GET /metrics.

The request body is {"query": "...", "user_type": "...", "max_results": 3}.
The response carries the ranked results, the profile used and any sub-query
failures. A negative max_results is rejected with 400.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			addr, _ := cmd.Flags().GetString("addr")
			viper.Set("server.addr", addr)
		}
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		m := metrics.NewSearchMetrics("profile-search")
		orch, err := newOrchestrator(cfg, loadedSecrets, logger, m)
		if err != nil {
			return err
		}

		opts := []server.Option{server.WithLogger(logger), server.WithMetrics(m)}
		store, err := history.NewStore(cfg.History)
		switch {
		case err == nil:
			defer store.Close()
			opts = append(opts, server.WithRecorder(store))
		case errors.Is(err, history.ErrDisabled):
		default:
			logger.Warn("search history disabled", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(orch, cfg.Server, cfg.Search.MaxResults, opts...).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}
