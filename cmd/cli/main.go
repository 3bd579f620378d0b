package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/terratracker/cmd/cli/data"
	"github.com/myrjola/terratracker/cmd/cli/script"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	// The .env file is optional, e.g. TERRA_NDVI_URL may come from it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(script.Group)
	rootCmd.AddCommand(script.Command)
	rootCmd.AddGroup(data.Group)
	rootCmd.AddCommand(data.Timeline, data.NDVI)
}

var rootCmd = &cobra.Command{
	Use:  "terratracker-cli",
	Long: `Command line utilities for Terra Tracker https://github.com/myrjola/terratracker`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
