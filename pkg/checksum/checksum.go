// Package checksum provides streaming digest verification for downloaded
// package files. It supports the algorithms commonly published in package
// repository metadata.
package checksum

import (
	"crypto/md5"  //nolint:gosec // repository metadata still publishes md5 sums
	"crypto/sha1" //nolint:gosec // repository metadata still publishes sha1 sums
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/glorpus-work/repofetch/pkg/errors"
)

// Type identifies a checksum algorithm.
type Type string

// Supported checksum types.
const (
	TypeUnknown Type = ""
	TypeMD5     Type = "md5"
	TypeSHA1    Type = "sha1"
	TypeSHA256  Type = "sha256"
	TypeSHA512  Type = "sha512"
)

// ParseType maps a textual algorithm name to a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeMD5:
		return TypeMD5, nil
	case TypeSHA1:
		return TypeSHA1, nil
	case TypeSHA256:
		return TypeSHA256, nil
	case TypeSHA512:
		return TypeSHA512, nil
	default:
		return TypeUnknown, errors.Wrapf(errors.ErrChecksumUnsupported, "%q", s)
	}
}

// ParseSum splits a combined "<type>:<hexdigest>" string as used in batch
// manifests and on the command line.
func ParseSum(s string) (Type, string, error) {
	algo, digest, found := strings.Cut(s, ":")
	if !found || digest == "" {
		return TypeUnknown, "", errors.Wrapf(errors.ErrChecksumUnsupported,
			"%q is not in <type>:<hexdigest> form", s)
	}
	t, err := ParseType(algo)
	if err != nil {
		return TypeUnknown, "", err
	}
	return t, strings.TrimSpace(digest), nil
}

func (t Type) newHash() (hash.Hash, error) {
	switch t {
	case TypeMD5:
		return md5.New(), nil //nolint:gosec // verification only
	case TypeSHA1:
		return sha1.New(), nil //nolint:gosec // verification only
	case TypeSHA256:
		return sha256.New(), nil
	case TypeSHA512:
		return sha512.New(), nil
	default:
		return nil, errors.Wrapf(errors.ErrChecksumUnsupported, "%q", string(t))
	}
}

// Verifier compares file content against an expected digest.
type Verifier struct{}

// NewVerifier creates a new Verifier instance.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify streams r through the digest for t and reports whether the result
// matches expectedHex. Comparison is case-insensitive. The caller owns r and
// is responsible for closing it.
func (v *Verifier) Verify(t Type, expectedHex string, r io.Reader) (bool, error) {
	h, err := t.newHash()
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(h, r); err != nil {
		return false, errors.Wrap(err, "hashing")
	}
	got := hex.EncodeToString(h.Sum(nil))
	return strings.EqualFold(got, strings.TrimSpace(expectedHex)), nil
}
