// Package model provides the data structures shared between the batch
// preparation layer and the transfer engine: package download requests and
// the concrete targets derived from them.
package model

import (
	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
)

// ProgressFunc receives transfer progress for a single package. total is the
// number of bytes expected (zero when unknown), downloaded the number of
// bytes written so far.
type ProgressFunc func(total, downloaded int64)

// PackageRequest describes one package to download. The caller-supplied
// fields are immutable after construction; LocalPath and Err are result
// fields written by the batch orchestrator.
type PackageRequest struct {
	// RelativeURL is the package path relative to a mirror base URL. It also
	// supplies the default destination filename.
	RelativeURL string

	// Dest optionally names an existing directory or an explicit file path.
	// When empty, the handle-level destination directory (or the current
	// working directory) is used.
	Dest string

	// ChecksumType and Checksum enable the pre-download skip check and
	// post-download verification. Both must be set to be meaningful.
	ChecksumType checksum.Type
	Checksum     string

	// ExpectedSize is the advisory size of the package in bytes, zero when
	// unknown.
	ExpectedSize int64

	// BaseURL overrides the handle-level mirrors for this request.
	BaseURL string

	// Resume requests a resumable transfer. A file that already exists
	// complete and intact is skipped before resume can be attempted, since
	// resuming a fully downloaded file fails by protocol definition.
	Resume bool

	// Progress is forwarded untouched to the transfer engine.
	Progress ProgressFunc

	// LocalPath is the resolved destination, set for every request that
	// reaches resolution, whether it is skipped or transferred.
	LocalPath string

	// Err is the terminal state of the request after a batch call:
	// errors.ErrAlreadyDownloaded for skipped requests, nil for transferred
	// ones, and a specific cause for failed ones.
	Err error
}

// NewPackageRequest builds a request for a single package. relativeURL must
// be non-empty; every other field is optional.
func NewPackageRequest(relativeURL, dest string, sumType checksum.Type, sum string,
	expectedSize int64, baseURL string, resume bool, progress ProgressFunc,
) (*PackageRequest, error) {
	if relativeURL == "" {
		return nil, errors.ErrEmptyRelativeURL
	}
	return &PackageRequest{
		RelativeURL:  relativeURL,
		Dest:         dest,
		ChecksumType: sumType,
		Checksum:     sum,
		ExpectedSize: expectedSize,
		BaseURL:      baseURL,
		Resume:       resume,
		Progress:     progress,
	}, nil
}

// DownloadTarget is the concrete form of a PackageRequest handed to the
// transfer engine. Request links back to the originating request; the engine
// must pass it through untouched so that results can be reconciled.
type DownloadTarget struct {
	RelativeURL  string
	BaseURL      string
	LocalPath    string
	ChecksumType checksum.Type
	Checksum     string
	ExpectedSize int64
	Resume       bool
	Progress     ProgressFunc

	// Err is the terminal error annotated by the engine, nil on success.
	Err error

	// Request is the originating request, one-to-one.
	Request *PackageRequest
}
