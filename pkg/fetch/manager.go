// Package fetch prepares batches of package download requests, delegates
// them to a transfer engine and reconciles per-target outcomes back onto the
// original requests, including cooperative SIGINT cancellation.
package fetch

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/repofetch/internal/logger"
	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/mirror"
	"github.com/glorpus-work/repofetch/pkg/model"
)

// Options configure a download handle.
type Options struct {
	// DestDir is the default destination directory for requests that carry
	// no destination of their own.
	DestDir string

	// Interruptible installs a scoped SIGINT guard around each batch call.
	// The first SIGINT marks the batch interrupted and cancels the engine
	// context; a second SIGINT takes the default terminating action.
	Interruptible bool

	// Progress is the handle-level progress callback applied by
	// DownloadPackage when building its request.
	Progress model.ProgressFunc
}

// Manager prepares package download batches and reconciles engine results.
// It is the package-download handle: resolution runs sequentially on the
// calling goroutine, any parallelism lives inside the transfer engine.
type Manager struct {
	engine   TransferEngine
	verifier ChecksumVerifier
	mirrors  MirrorProvider
	opts     Options
}

// New creates a download manager over the given collaborators.
func New(engine TransferEngine, verifier ChecksumVerifier, mirrors MirrorProvider, opts Options) *Manager {
	return &Manager{
		engine:   engine,
		verifier: verifier,
		mirrors:  mirrors,
		opts:     opts,
	}
}

// DownloadPackages downloads a batch of packages. Every request ends the
// call in exactly one terminal state, readable from its Err field: skipped
// (errors.ErrAlreadyDownloaded), transferred (nil) or failed (a specific
// cause). The returned error is the overall batch outcome; an observed
// interrupt supersedes whatever the engine reported.
func (m *Manager) DownloadPackages(ctx context.Context, requests []*model.PackageRequest, failFast bool) error {
	if len(requests) == 0 {
		return nil
	}
	if m.mirrors == nil || m.mirrors.Kind() != mirror.RepoKindPackages {
		return errors.Wrap(errors.ErrBadRepoKind, "download packages")
	}

	var (
		guard  *interruptGuard
		cancel context.CancelFunc
	)
	if m.opts.Interruptible {
		ctx, cancel = context.WithCancel(ctx)
		g, err := installInterruptGuard(cancel)
		if err != nil {
			cancel()
			return err
		}
		guard = g
		logger.Debug("installed SIGINT guard for package batch")
	}

	runErr := m.run(ctx, requests, failFast)

	if guard != nil {
		cancel()
		guard.Release()
		logger.Debug("restored previous SIGINT handling")
		if guard.Interrupted() {
			// Interruption is reported exactly once and takes precedence
			// over any engine-reported error.
			return errors.ErrInterrupted
		}
	}
	return runErr
}

// run covers the guarded region: mirrorlist preparation, target resolution,
// delegation and result reconciliation.
func (m *Manager) run(ctx context.Context, requests []*model.PackageRequest, failFast bool) error {
	mirrors, err := m.mirrors.Prepare(ctx)
	if err != nil {
		return errors.Wrap(err, "prepare mirrorlist")
	}

	targets := make([]*model.DownloadTarget, 0, len(requests))
	prepareFailed := false
	for _, req := range requests {
		target, err := m.resolve(req)
		if err != nil {
			// A bad request does not abort resolution of its siblings.
			req.Err = err
			prepareFailed = true
			continue
		}
		if target == nil {
			continue // already downloaded
		}
		targets = append(targets, target)
	}

	var transferErr error
	if len(targets) > 0 {
		logger.Debug("delegating batch to transfer engine",
			logrus.Fields{"targets": len(targets), "fail_fast": failFast})
		transferErr = m.engine.Transfer(ctx, mirrors, targets, failFast)
	}

	// Copy terminal errors back onto the originating requests. Skipped
	// requests already carry their marker and never reached the engine.
	for _, target := range targets {
		if target.Err != nil && target.Request != nil {
			target.Request.Err = target.Err
		}
	}

	if transferErr != nil {
		return transferErr
	}
	if prepareFailed {
		return errors.ErrBatchPrepare
	}
	return nil
}

// DownloadPackage fetches a single package through the batch path with
// fail-fast semantics, applying the handle-level destination and progress
// callback. The returned request carries the resolved local path and the
// terminal state marker.
func (m *Manager) DownloadPackage(ctx context.Context, relativeURL, dest string,
	sumType checksum.Type, sum string, expectedSize int64, baseURL string, resume bool,
) (*model.PackageRequest, error) {
	if dest == "" {
		dest = m.opts.DestDir
	}
	req, err := model.NewPackageRequest(relativeURL, dest, sumType, sum,
		expectedSize, baseURL, resume, m.opts.Progress)
	if err != nil {
		return nil, err
	}
	if err := m.DownloadPackages(ctx, []*model.PackageRequest{req}, true); err != nil {
		return req, err
	}
	return req, nil
}
