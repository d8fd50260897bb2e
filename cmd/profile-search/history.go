// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/profile-search/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded searches",
	Long: `History reads the SQLite database (history.path) in which the search
command and the HTTP server record every completed search. The database is a
log only; searches never read from it.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No searches recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tPROFILE\tRESULTS\tFAILURES\tQUERY")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Profile, len(e.Results), e.Failures, e.Query)
		}
		return tw.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search counts per profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROFILE\tSEARCHES\tAVG RESULTS\tFAILURES")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d\n", s.Profile, s.Searches, s.AvgResults, s.Failures)
		}
		return tw.Flush()
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded searches as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			return store.ExportYAML(cmd.Context(), w)
		case "json":
			return store.ExportJSON(cmd.Context(), w)
		default:
			return fmt.Errorf("unknown export format %q (use yaml or json)", format)
		}
	},
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "number of searches to list")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyStatsCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
