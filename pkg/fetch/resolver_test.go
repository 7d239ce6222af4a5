package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/mirror"
	"github.com/glorpus-work/repofetch/pkg/model"
)

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func newTestManager(opts Options) *Manager {
	provider := mirror.NewStaticProvider(mirror.RepoKindPackages, []string{"https://mirror.example/repo"})
	return New(nil, checksum.NewVerifier(), provider, opts)
}

func TestResolveLocalPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		relativeURL string
		dest        string
		expected    string
	}{
		{
			name:        "existing directory gets basename appended",
			relativeURL: "pkgs/foo-1.0.rpm",
			dest:        dir,
			expected:    filepath.Join(dir, "foo-1.0.rpm"),
		},
		{
			name:        "non-directory hint taken verbatim",
			relativeURL: "pkgs/foo-1.0.rpm",
			dest:        filepath.Join(dir, "out.rpm"),
			expected:    filepath.Join(dir, "out.rpm"),
		},
		{
			name:        "nonexistent path taken verbatim",
			relativeURL: "pkgs/foo-1.0.rpm",
			dest:        filepath.Join(dir, "missing", "out.rpm"),
			expected:    filepath.Join(dir, "missing", "out.rpm"),
		},
		{
			name:        "no hint falls back to basename",
			relativeURL: "pkgs/foo-1.0.rpm",
			expected:    "foo-1.0.rpm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveLocalPath(tt.relativeURL, tt.dest))
		})
	}
}

func TestResolveUsesHandleDefaultDestDir(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(Options{DestDir: dir})

	req, err := model.NewPackageRequest("pkgs/foo-1.0.rpm", "", checksum.TypeUnknown, "", 0, "", false, nil)
	require.NoError(t, err)

	target, err := m.resolve(req)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, filepath.Join(dir, "foo-1.0.rpm"), req.LocalPath)
	assert.Equal(t, req.LocalPath, target.LocalPath)
}

func TestResolveWithoutChecksumNeverSkips(t *testing.T) {
	dir := t.TempDir()
	// A file already exists, but without a configured checksum the skip
	// check must not run.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo-1.0.rpm"), []byte("payload"), 0o644))

	m := newTestManager(Options{})
	req, err := model.NewPackageRequest("pkgs/foo-1.0.rpm", dir, checksum.TypeUnknown, "", 0, "", false, nil)
	require.NoError(t, err)

	target, err := m.resolve(req)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.NoError(t, req.Err)
}

func TestResolveSkipsVerifiedFile(t *testing.T) {
	dir := t.TempDir()
	content := "package payload"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo-1.0.rpm"), []byte(content), 0o644))

	m := newTestManager(Options{})
	req, err := model.NewPackageRequest("pkgs/foo-1.0.rpm", dir,
		checksum.TypeSHA256, sha256Hex(content), 0, "", true, nil)
	require.NoError(t, err)

	target, err := m.resolve(req)
	require.NoError(t, err)
	assert.Nil(t, target)
	assert.ErrorIs(t, req.Err, errors.ErrAlreadyDownloaded)
	assert.Equal(t, filepath.Join(dir, "foo-1.0.rpm"), req.LocalPath)
}

func TestResolveChecksumMismatchProducesTarget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo-1.0.rpm"), []byte("stale"), 0o644))

	m := newTestManager(Options{})
	req, err := model.NewPackageRequest("pkgs/foo-1.0.rpm", dir,
		checksum.TypeSHA256, sha256Hex("fresh"), 0, "", true, nil)
	require.NoError(t, err)

	target, err := m.resolve(req)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.NoError(t, req.Err)
	// Resume passes through unmodified for redownloads.
	assert.True(t, target.Resume)
	assert.Same(t, req, target.Request)
}

func TestResolveMissingFileProducesTarget(t *testing.T) {
	m := newTestManager(Options{DestDir: t.TempDir()})
	req, err := model.NewPackageRequest("pkgs/foo-1.0.rpm", "",
		checksum.TypeSHA256, sha256Hex("anything"), 0, "", false, nil)
	require.NoError(t, err)

	target, err := m.resolve(req)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.NoError(t, req.Err)
}

func TestResolveEmptyRelativeURL(t *testing.T) {
	m := newTestManager(Options{})
	_, err := m.resolve(&model.PackageRequest{})
	require.ErrorIs(t, err, errors.ErrEmptyRelativeURL)
}
