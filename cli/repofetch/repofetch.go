package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/repofetch/internal/cli"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repofetch",
		Short: "A package repository download client",
		Long: `repofetch downloads packages from mirrored repositories with:
- CLI: fetch single packages or whole batch manifests
- Library: checksum skip-checks, mirror failover and resumable transfers
- Tooling: manage the client configuration`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor

	// Add subcommands
	cmd.AddCommand(
		cli.NewFetchCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
