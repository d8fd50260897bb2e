// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/profile-search/internal/history"
	"github.com/pdiddy/profile-search/internal/search"
	"github.com/pdiddy/profile-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search with the strategy of a user profile",
	Long: `Search expands the query into the sub-queries of the selected profile,
queries the web, encyclopedia and shopping sources concurrently, and prints the
deduplicated, ranked results.

A sub-query whose source fails or times out is reported as a warning; the
remaining results are still printed. Use --save to keep the results in a YAML
file and --load to display a saved file without querying again.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("profile", "p", string(types.ProfileDefault), "user profile: researcher, student, business, shopping, default")
	searchCmd.Flags().IntP("max-results", "n", 0, "maximum number of results (default from search.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML citations")
	searchCmd.Flags().String("save", "", "save query and results to a YAML file")
	searchCmd.Flags().String("load", "", "display results from a saved YAML file")
	searchCmd.Flags().Bool("no-history", false, "do not record this search in the history database")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")

	if path, _ := cmd.Flags().GetString("load"); path != "" {
		rf, err := search.ReadResultFile(path)
		if err != nil {
			return err
		}
		return printOutput(cmd, rf.Output(), asJSON, asCSL)
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("provide a query or use --load")
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("profile")
	maxResults := cfg.Search.MaxResults
	if cmd.Flags().Changed("max-results") {
		maxResults, _ = cmd.Flags().GetInt("max-results")
	}

	orch, err := newOrchestrator(cfg, loadedSecrets, logger, nil)
	if err != nil {
		return err
	}

	req := search.Request{Query: query, Profile: types.Profile(profile), MaxResults: maxResults}
	out, err := orch.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteResultFile(path, req, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", len(out.Results), path)
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		recordHistory(cmd.Context(), cfg.History, req, out)
	}

	return printOutput(cmd, out, asJSON, asCSL)
}

func printOutput(cmd *cobra.Command, out search.Output, asJSON, asCSL bool) error {
	w := cmd.OutOrStdout()
	switch {
	case asJSON:
		return search.FormatJSON(out, w)
	case asCSL:
		return search.FormatCSL(out.Results, time.Now(), w)
	default:
		search.FormatTable(out, w)
		return nil
	}
}

// recordHistory stores the search. History is best effort; failures are
// logged and never fail the command.
func recordHistory(ctx context.Context, cfg types.HistoryConfig, req search.Request, out search.Output) {
	store, err := history.NewStore(cfg)
	if err != nil {
		if !errors.Is(err, history.ErrDisabled) {
			logger.Warn("opening history store failed", zap.Error(err))
		}
		return
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Entry{
		ID:         out.RequestID,
		Query:      req.Query,
		Profile:    out.Profile,
		MaxResults: req.MaxResults,
		BuyIntent:  out.BuyIntent,
		Failures:   len(out.Failures),
		Results:    out.Results,
	})
	if err != nil {
		logger.Warn("recording search history failed", zap.Error(err))
	}
}
