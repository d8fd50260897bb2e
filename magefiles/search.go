//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Smoke runs one live query per profile against the real providers.
func Smoke() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	queries := map[string]string{
		"researcher": "photosynthesis",
		"student":    "recursion",
		"business":   "electric vehicles",
		"shopping":   "kopfhörer kaufen",
		"default":    "golang",
	}
	for _, profile := range []string{"researcher", "student", "business", "shopping", "default"} {
		if err := sh.RunV(bin, "search", "--no-history", "-p", profile, queries[profile]); err != nil {
			return err
		}
	}
	return nil
}
