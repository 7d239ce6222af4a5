package errors

import "fmt"

// Common error types.
var (
	// Request construction errors.
	ErrEmptyRelativeURL = fmt.Errorf("relative URL cannot be empty")

	// Batch preparation errors.
	ErrBadRepoKind   = fmt.Errorf("handle is not configured for package repositories")
	ErrSignalHandler = fmt.Errorf("cannot install interrupt handler")
	ErrBatchPrepare  = fmt.Errorf("one or more requests could not be prepared")
	ErrNoMirrors     = fmt.Errorf("no usable mirrors configured")

	// Terminal download states. ErrAlreadyDownloaded is a marker, not a
	// failure: the request is satisfied without a transfer.
	ErrAlreadyDownloaded = fmt.Errorf("already downloaded")
	ErrInterrupted       = fmt.Errorf("interrupted by SIGINT signal")

	// Transfer errors.
	ErrTransferFailed  = fmt.Errorf("transfer failed")
	ErrTransferAborted = fmt.Errorf("transfer aborted")

	// Verification errors.
	ErrChecksumUnsupported = fmt.Errorf("unsupported checksum type")
	ErrChecksumMismatch    = fmt.Errorf("checksum mismatch")
	ErrSizeMismatch        = fmt.Errorf("downloaded size does not match expected size")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")

	// Manifest errors.
	ErrManifestParse   = fmt.Errorf("failed to parse manifest")
	ErrManifestVersion = fmt.Errorf("unsupported manifest version")

	// Filesystem errors.
	ErrInvalidPath = fmt.Errorf("invalid path")
	ErrEmptyPaths  = fmt.Errorf("source and destination paths cannot be empty")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
