package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/repofetch/pkg/config"
)

const tabWidth = 2

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify repofetch configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, tabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")
	_, _ = fmt.Fprintf(tabWriter, "repo_kind\t%s\n", cfg.RepoKind)
	_, _ = fmt.Fprintf(tabWriter, "dest_dir\t%s\n", cfg.Settings.DestDir)
	_, _ = fmt.Fprintf(tabWriter, "concurrency\t%d\n", cfg.Settings.Concurrency)
	_, _ = fmt.Fprintf(tabWriter, "max_retries\t%d\n", cfg.Settings.MaxRetries)
	_, _ = fmt.Fprintf(tabWriter, "rate_limit\t%d\n", cfg.Settings.RateLimit)
	_, _ = fmt.Fprintf(tabWriter, "http_timeout\t%s\n", cfg.Settings.HTTPTimeout)
	_, _ = fmt.Fprintf(tabWriter, "lock_files\t%t\n", cfg.Settings.LockFiles)
	_, _ = fmt.Fprintf(tabWriter, "interruptible\t%t\n", cfg.Settings.Interruptible)
	_, _ = fmt.Fprintf(tabWriter, "log_level\t%s\n", cfg.Settings.LogLevel)
	_ = tabWriter.Flush()

	fmt.Printf("\nMirrors (%d):\n", len(cfg.Mirrors))
	for _, m := range cfg.Mirrors {
		fmt.Printf("  %s\n", m)
	}

	return nil
}

func runConfigInit(force bool) error {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
