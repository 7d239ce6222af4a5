//go:generate mockgen -destination=./mocks/fetch.go -package=mocks . TransferEngine,ChecksumVerifier,MirrorProvider

package fetch

import (
	"context"
	"io"
	"net/url"

	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/mirror"
	"github.com/glorpus-work/repofetch/pkg/model"
)

// TransferEngine performs the actual multi-target download. It must not
// reorder or drop entries of the target list; failed targets are annotated
// in place with a terminal error. With failFast set the engine may stop
// scheduling after the first failure.
type TransferEngine interface {
	Transfer(ctx context.Context, mirrors []*url.URL, targets []*model.DownloadTarget, failFast bool) error
}

// ChecksumVerifier reports whether content read from r matches the expected
// digest. The caller owns r and closes it regardless of the outcome.
type ChecksumVerifier interface {
	Verify(t checksum.Type, expectedHex string, r io.Reader) (bool, error)
}

// MirrorProvider is the subset of the mirror package used by the manager.
type MirrorProvider interface {
	Kind() mirror.RepoKind
	Prepare(ctx context.Context) ([]*url.URL, error)
}
