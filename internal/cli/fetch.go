package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/model"
)

type fetchFlags struct {
	dest        string
	baseURL     string
	checksum    string
	size        int64
	resume      bool
	failFast    bool
	manifest    string
	concurrency int
	mirrors     []string
}

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch [RELATIVE_URL...]",
		Short: "Download packages from the configured mirrors",
		Long: `Download one or more packages given by their repository-relative URLs.
Packages whose destination file already matches the expected checksum are
skipped without a transfer. Alternatively a YAML manifest can describe the
whole batch.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.dest, "dest", "d", "", "Destination directory or file path")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Base URL override, bypasses the mirrorlist")
	cmd.Flags().StringVar(&flags.checksum, "checksum", "", "Expected checksum as <type>:<hex>, e.g. sha256:ab12...")
	cmd.Flags().Int64Var(&flags.size, "size", 0, "Expected file size in bytes (0=unchecked)")
	cmd.Flags().BoolVar(&flags.resume, "resume", false, "Continue partial downloads instead of restarting")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Abort the whole batch on the first failure")
	cmd.Flags().StringVarP(&flags.manifest, "manifest", "m", "", "YAML manifest describing the batch")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Number of parallel downloads (0=auto)")
	cmd.Flags().StringArrayVar(&flags.mirrors, "mirror", nil, "Mirror base URL, overrides the configured mirrors (repeatable)")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string, flags *fetchFlags) error {
	if len(args) == 0 && flags.manifest == "" {
		return fmt.Errorf("nothing to fetch: pass RELATIVE_URL arguments or --manifest")
	}
	if len(args) > 0 && flags.manifest != "" {
		return fmt.Errorf("RELATIVE_URL arguments and --manifest are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flags.concurrency > 0 {
		cfg.Settings.Concurrency = flags.concurrency
	}
	if len(flags.mirrors) > 0 {
		cfg.Mirrors = flags.mirrors
	}

	requests, err := buildRequests(args, flags)
	if err != nil {
		return err
	}

	manager := buildManager(cfg, nil)
	batchErr := manager.DownloadPackages(cmd.Context(), requests, flags.failFast)

	printOutcomes(requests)

	if stderrors.Is(batchErr, errors.ErrInterrupted) {
		return fmt.Errorf("fetch interrupted: %w", batchErr)
	}
	if batchErr != nil {
		return fmt.Errorf("failed to fetch packages: %w", batchErr)
	}
	return nil
}

func buildRequests(args []string, flags *fetchFlags) ([]*model.PackageRequest, error) {
	if flags.manifest != "" {
		manifest, err := LoadManifest(flags.manifest)
		if err != nil {
			return nil, err
		}
		return manifest.Requests(nil)
	}

	sumType, sum := checksum.TypeUnknown, ""
	if flags.checksum != "" {
		if len(args) > 1 {
			return nil, fmt.Errorf("--checksum applies to a single package, got %d", len(args))
		}
		var err error
		sumType, sum, err = checksum.ParseSum(flags.checksum)
		if err != nil {
			return nil, err
		}
	}

	requests := make([]*model.PackageRequest, 0, len(args))
	for _, relativeURL := range args {
		req, err := model.NewPackageRequest(relativeURL, flags.dest, sumType, sum,
			flags.size, flags.baseURL, flags.resume, nil)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// printOutcomes reports the per-package results after a batch, successes and
// failures alike.
func printOutcomes(requests []*model.PackageRequest) {
	for _, req := range requests {
		switch {
		case req.Err == nil:
			fmt.Printf("fetched     %s -> %s\n", req.RelativeURL, req.LocalPath)
		case stderrors.Is(req.Err, errors.ErrAlreadyDownloaded):
			fmt.Printf("up to date  %s (%s)\n", req.RelativeURL, req.LocalPath)
		default:
			fmt.Printf("failed      %s: %v\n", req.RelativeURL, req.Err)
		}
	}
}
