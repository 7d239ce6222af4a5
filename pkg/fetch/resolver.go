package fetch

import (
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/repofetch/internal/logger"
	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/model"
)

// resolveLocalPath applies the destination algorithm: an existing directory
// gets the basename of the relative URL appended, any other non-empty hint is
// taken verbatim, and with no hint at all the file lands in the current
// working directory under its basename.
func resolveLocalPath(relativeURL, dest string) string {
	if dest != "" {
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			return filepath.Join(dest, path.Base(relativeURL))
		}
		return dest
	}
	return path.Base(relativeURL)
}

// alreadyDownloaded reports whether a verified copy of the request already
// exists at its resolved local path. Any obstacle to verification (missing
// file, unreadable file, verifier error, digest mismatch) means the package
// has to be downloaded, which is never an error here.
func (m *Manager) alreadyDownloaded(req *model.PackageRequest) bool {
	if req.ChecksumType == checksum.TypeUnknown || req.Checksum == "" {
		return false
	}
	f, err := os.Open(req.LocalPath)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	match, err := m.verifier.Verify(req.ChecksumType, req.Checksum, f)
	return err == nil && match
}

// resolve turns one request into a download target, or nil when the request
// can be skipped because an intact copy already exists. Skipped requests are
// marked with errors.ErrAlreadyDownloaded and must never reach the engine:
// resuming a fully downloaded file is a defined failure mode of the transfer
// protocol.
func (m *Manager) resolve(req *model.PackageRequest) (*model.DownloadTarget, error) {
	if req.RelativeURL == "" {
		return nil, errors.ErrEmptyRelativeURL
	}

	dest := req.Dest
	if dest == "" {
		dest = m.opts.DestDir
	}
	req.LocalPath = resolveLocalPath(req.RelativeURL, dest)

	if m.alreadyDownloaded(req) {
		logger.Debug("package already downloaded, checksum matches",
			logrus.Fields{"path": req.LocalPath})
		req.Err = errors.ErrAlreadyDownloaded
		return nil, nil
	}

	return &model.DownloadTarget{
		RelativeURL:  req.RelativeURL,
		BaseURL:      req.BaseURL,
		LocalPath:    req.LocalPath,
		ChecksumType: req.ChecksumType,
		Checksum:     req.Checksum,
		ExpectedSize: req.ExpectedSize,
		Resume:       req.Resume,
		Progress:     req.Progress,
		Request:      req,
	}, nil
}
