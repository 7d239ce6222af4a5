package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
apiVersion: "1.0"
packages:
  - url: pkgs/foo-1.0.rpm
    checksum: sha256:ab12cd34
    size: 2048
    resume: true
  - url: pkgs/bar-2.1.rpm
    dest: /tmp/bar.rpm
    base_url: https://other.example/repo
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Packages, 2)

	requests, err := manifest.Requests(nil)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "pkgs/foo-1.0.rpm", requests[0].RelativeURL)
	assert.Equal(t, checksum.TypeSHA256, requests[0].ChecksumType)
	assert.Equal(t, "ab12cd34", requests[0].Checksum)
	assert.Equal(t, int64(2048), requests[0].ExpectedSize)
	assert.True(t, requests[0].Resume)

	assert.Equal(t, "pkgs/bar-2.1.rpm", requests[1].RelativeURL)
	assert.Equal(t, "/tmp/bar.rpm", requests[1].Dest)
	assert.Equal(t, "https://other.example/repo", requests[1].BaseURL)
	assert.Equal(t, checksum.TypeUnknown, requests[1].ChecksumType)
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "invalid yaml",
			content: "packages: [",
			wantErr: errors.ErrManifestParse,
		},
		{
			name:    "missing apiVersion",
			content: "packages:\n  - url: pkgs/a.rpm\n",
			wantErr: errors.ErrManifestParse,
		},
		{
			name:    "unsupported apiVersion",
			content: "apiVersion: \"2.0\"\npackages:\n  - url: pkgs/a.rpm\n",
			wantErr: errors.ErrManifestVersion,
		},
		{
			name:    "no packages",
			content: "apiVersion: \"1.0\"\n",
			wantErr: errors.ErrManifestParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManifestRequestsErrors(t *testing.T) {
	t.Run("bad checksum", func(t *testing.T) {
		m := &Manifest{
			APIVersion: "1.0",
			Packages:   []ManifestPackage{{URL: "pkgs/a.rpm", Checksum: "crc32:1234"}},
		}
		_, err := m.Requests(nil)
		require.ErrorIs(t, err, errors.ErrChecksumUnsupported)
	})

	t.Run("empty url", func(t *testing.T) {
		m := &Manifest{
			APIVersion: "1.0",
			Packages:   []ManifestPackage{{Dest: "/tmp/out.rpm"}},
		}
		_, err := m.Requests(nil)
		require.ErrorIs(t, err, errors.ErrEmptyRelativeURL)
	})
}
