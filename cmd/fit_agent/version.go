package main

import (
	"fmt"

	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and built-in dictionary version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dictVersion := "unavailable"
		if dict, err := dictionary.Default(); err == nil {
			dictVersion = dict.Version()
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "fit_agent %s (dictionary %s)\n", version, dictVersion)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
