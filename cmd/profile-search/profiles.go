// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/profile-search/internal/search"
	"github.com/pdiddy/profile-search/pkg/types"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List user profiles and their sub-query templates",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for i, p := range types.Profiles {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", p)
			for _, line := range search.Describe(p) {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
