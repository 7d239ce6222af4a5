// Package fsutil provides filesystem helpers shared by the transfer engine
// and the CLI.
package fsutil

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/glorpus-work/repofetch/pkg/errors"
)

// Move moves a file from src to dst. It attempts an atomic os.Rename first
// and falls back to copy + delete when src and dst live on different
// filesystems.
func Move(src, dst string) error {
	if src == "" || dst == "" {
		return errors.ErrEmptyPaths
	}

	if err := os.MkdirAll(filepath.Dir(dst), DirModeDefault); err != nil {
		return errors.Wrapf(err, "create destination directory for %s", dst)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDeviceError(err) {
		return errors.Wrapf(err, "rename %s to %s", src, dst)
	}

	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return errors.Wrapf(err, "remove source %s after copy", src)
	}
	return nil
}

// Copy copies a regular file from src to dst, preserving the source mode.
func Copy(src, dst string) error {
	if src == "" || dst == "" {
		return errors.ErrEmptyPaths
	}

	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stat source %s", src)
	}
	if !info.Mode().IsRegular() {
		return errors.Wrapf(errors.ErrInvalidPath, "%s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open source %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.Wrapf(err, "create destination %s", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close destination %s", dst)
	}
	return nil
}

// isCrossDeviceError reports whether a rename failed because src and dst are
// on different filesystems.
func isCrossDeviceError(err error) bool {
	var linkErr *os.LinkError
	if stderrors.As(err, &linkErr) {
		return linkErr.Err == syscall.EXDEV
	}
	return false
}
