// Package engine implements the HTTP transfer engine for multi-target
// package downloads: mirror failover, retries, resumable transfers and
// post-transfer verification. The batch layer in pkg/fetch decides what to
// download; the engine only moves bytes and annotates failed targets.
package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/glorpus-work/repofetch/internal/logger"
	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/fetch"
	"github.com/glorpus-work/repofetch/pkg/fsutil"
	"github.com/glorpus-work/repofetch/pkg/model"
)

const (
	defaultUserAgent = "repofetch/1.0"
	copyBufSize      = 32 * 1024
)

// Options tune the transfer engine.
type Options struct {
	// Concurrency is the number of parallel transfers; <=0 picks a default
	// based on the CPU count.
	Concurrency int

	// MaxRetries is the number of retries per candidate URL after the first
	// attempt.
	MaxRetries uint64

	// HTTPTimeout bounds a whole request including the body read; zero means
	// no timeout.
	HTTPTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RateLimit is the shared download budget in bytes per second across all
	// transfers; <=0 means unlimited.
	RateLimit int64

	// LockFiles protects destination files with advisory locks so that two
	// processes cannot write the same package concurrently.
	LockFiles bool
}

// Engine is an HTTP transfer engine. It implements fetch.TransferEngine.
type Engine struct {
	client   *http.Client
	verifier *checksum.Verifier
	limiter  *rate.Limiter
	opts     Options
}

var _ fetch.TransferEngine = (*Engine)(nil)

// New creates a transfer engine.
func New(opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < copyBufSize {
			burst = copyBufSize
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Engine{
		client:   &http.Client{Timeout: opts.HTTPTimeout},
		verifier: checksum.NewVerifier(),
		limiter:  limiter,
		opts:     opts,
	}
}

// Transfer downloads all targets using a bounded worker pool. The target
// list is passed through unchanged; failed targets are annotated in place.
// With failFast set, the first failure cancels the remaining transfers and
// unstarted targets are annotated as aborted.
func (e *Engine) Transfer(ctx context.Context, mirrors []*url.URL, targets []*model.DownloadTarget, failFast bool) error {
	if len(targets) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(target *model.DownloadTarget, err error) {
		mu.Lock()
		target.Err = err
		if firstErr == nil {
			firstErr = err
			if failFast {
				cancel()
			}
		}
		mu.Unlock()
	}

	tasks := make(chan *model.DownloadTarget)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range tasks {
				if ctx.Err() != nil {
					fail(target, errors.ErrTransferAborted)
					continue
				}
				if err := e.download(ctx, mirrors, target); err != nil {
					fail(target, err)
				}
			}
		}()
	}

	for _, target := range targets {
		tasks <- target
	}
	close(tasks)
	wg.Wait()

	return firstErr
}

// download fetches one target, trying its base URL override or every
// prepared mirror in order.
func (e *Engine) download(ctx context.Context, mirrors []*url.URL, target *model.DownloadTarget) error {
	transferID := uuid.New().String()
	candidates, err := e.candidateURLs(mirrors, target)
	if err != nil {
		return err
	}

	logger.Debug("starting transfer", logrus.Fields{
		"transfer": transferID,
		"relative": target.RelativeURL,
		"path":     target.LocalPath,
		"resume":   target.Resume,
	})

	var lastErr error
	for _, u := range candidates {
		if ctx.Err() != nil {
			if lastErr != nil {
				return lastErr
			}
			return errors.ErrTransferAborted
		}
		err := e.fetchURL(ctx, u, target)
		if err == nil {
			logger.Debug("transfer complete", logrus.Fields{
				"transfer": transferID,
				"path":     target.LocalPath,
			})
			return nil
		}
		lastErr = err
		logger.Warn("mirror failed for package", logrus.Fields{
			"transfer": transferID,
			"url":      u.String(),
			"error":    err.Error(),
		})
	}
	return errors.Wrapf(lastErr, "download %s", target.RelativeURL)
}

// candidateURLs builds the ordered list of URLs to try for a target. A
// per-target base URL override wins over the prepared mirrorlist.
func (e *Engine) candidateURLs(mirrors []*url.URL, target *model.DownloadTarget) ([]*url.URL, error) {
	if target.BaseURL != "" {
		base, err := url.Parse(target.BaseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid base URL %q", target.BaseURL)
		}
		return []*url.URL{base.JoinPath(target.RelativeURL)}, nil
	}
	if len(mirrors) == 0 {
		return nil, errors.ErrNoMirrors
	}
	candidates := make([]*url.URL, 0, len(mirrors))
	for _, m := range mirrors {
		candidates = append(candidates, m.JoinPath(target.RelativeURL))
	}
	return candidates, nil
}

// fetchURL fetches a target from one URL with exponential backoff between
// attempts. Client-side errors such as 4xx responses or a failed resume are
// permanent and skip straight to the next mirror.
func (e *Engine) fetchURL(ctx context.Context, u *url.URL, target *model.DownloadTarget) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	op := func() error {
		return e.fetchOnce(ctx, u, target)
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, e.opts.MaxRetries), ctx))
}

func (e *Engine) fetchOnce(ctx context.Context, u *url.URL, target *model.DownloadTarget) error {
	// The lock must cover the resume-offset stat: another process appending
	// to the file between stat and open would corrupt the resumed download.
	unlock, err := e.lockDest(target.LocalPath)
	if err != nil {
		return err
	}
	defer unlock()

	var offset int64
	if target.Resume {
		if info, err := os.Stat(target.LocalPath); err == nil && info.Mode().IsRegular() {
			offset = info.Size()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("User-Agent", e.opts.UserAgent)
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Server ignored the range request, start over from zero.
		offset = 0
	case resp.StatusCode == http.StatusPartialContent:
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		// Resuming a fully downloaded file fails by protocol definition.
		return backoff.Permanent(errors.Wrapf(errors.ErrTransferFailed,
			"cannot resume %s: requested range not satisfiable", target.LocalPath))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(errors.Wrapf(errors.ErrTransferFailed,
			"unexpected status code %d", resp.StatusCode))
	default:
		return errors.Wrapf(errors.ErrTransferFailed, "unexpected status code %d", resp.StatusCode)
	}

	if offset > 0 {
		return e.appendBody(ctx, resp, target, offset)
	}
	return e.writeFresh(ctx, resp, target)
}

// lockDest takes an advisory lock next to the destination when file locking
// is enabled. The returned release function is always safe to call.
func (e *Engine) lockDest(localPath string) (func(), error) {
	if !e.opts.LockFiles {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(localPath), fsutil.DirModeDefault); err != nil {
		return nil, errors.Wrap(err, "could not create destination directory")
	}
	lock := flock.New(localPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock destination %s", localPath)
	}
	if !locked {
		return nil, errors.Wrapf(errors.ErrTransferFailed,
			"destination %s is locked by another process", localPath)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}, nil
}

// writeFresh downloads into a temp file next to the destination and moves it
// in place after verification.
func (e *Engine) writeFresh(ctx context.Context, resp *http.Response, target *model.DownloadTarget) error {
	dir := filepath.Dir(target.LocalPath)
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "could not create destination directory")
	}
	tmp, err := os.CreateTemp(dir, path.Base(target.RelativeURL)+".part.*")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	written, copyErr := e.copyBody(ctx, tmp, resp, target, 0)
	if syncErr := tmp.Sync(); copyErr == nil && syncErr != nil {
		copyErr = errors.Wrap(syncErr, "could not sync file")
	}
	if closeErr := tmp.Close(); copyErr == nil && closeErr != nil {
		copyErr = errors.Wrap(closeErr, "could not close file")
	}
	if copyErr == nil {
		copyErr = e.verify(tmpPath, target, written)
	}
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return copyErr
	}

	if err := fsutil.Move(tmpPath, target.LocalPath); err != nil {
		return errors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(target.LocalPath, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "could not set permissions")
	}
	return nil
}

// appendBody continues a partial download in place at the given offset.
func (e *Engine) appendBody(ctx context.Context, resp *http.Response, target *model.DownloadTarget, offset int64) error {
	f, err := os.OpenFile(target.LocalPath, os.O_WRONLY|os.O_APPEND, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrapf(err, "open %s for resume", target.LocalPath)
	}

	written, copyErr := e.copyBody(ctx, f, resp, target, offset)
	if syncErr := f.Sync(); copyErr == nil && syncErr != nil {
		copyErr = errors.Wrap(syncErr, "could not sync file")
	}
	if closeErr := f.Close(); copyErr == nil && closeErr != nil {
		copyErr = errors.Wrap(closeErr, "could not close file")
	}
	if copyErr != nil {
		return copyErr
	}
	return e.verify(target.LocalPath, target, written)
}

// copyBody streams the response body to dst, enforcing the shared bandwidth
// budget and reporting progress. It returns the total number of bytes the
// destination holds, including a resume offset.
func (e *Engine) copyBody(ctx context.Context, dst io.Writer, resp *http.Response, target *model.DownloadTarget, offset int64) (int64, error) {
	total := offset
	if resp.ContentLength >= 0 {
		total = offset + resp.ContentLength
	} else if target.ExpectedSize > 0 {
		total = target.ExpectedSize
	}

	written := offset
	buf := make([]byte, copyBufSize)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, readErr := resp.Body.Read(buf)
		if nr > 0 {
			if e.limiter != nil {
				if err := e.limiter.WaitN(ctx, nr); err != nil {
					return written, err
				}
			}
			nw, writeErr := dst.Write(buf[:nr])
			written += int64(nw)
			if writeErr != nil {
				return written, errors.Wrap(writeErr, "could not write file")
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
			if target.Progress != nil {
				target.Progress(total, written)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, errors.Wrap(readErr, "could not read response body")
		}
	}
}

// verify checks the finished file against the expected size and checksum of
// the target.
func (e *Engine) verify(localPath string, target *model.DownloadTarget, written int64) error {
	if target.ExpectedSize > 0 && written != target.ExpectedSize {
		return errors.Wrapf(errors.ErrSizeMismatch,
			"%s: expected %d bytes, got %d", target.RelativeURL, target.ExpectedSize, written)
	}
	if target.ChecksumType == checksum.TypeUnknown || target.Checksum == "" {
		return nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	match, err := e.verifier.Verify(target.ChecksumType, target.Checksum, f)
	if err != nil {
		return err
	}
	if !match {
		return errors.Wrapf(errors.ErrChecksumMismatch, "for %s", target.RelativeURL)
	}
	return nil
}
