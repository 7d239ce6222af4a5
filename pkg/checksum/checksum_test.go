package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/repofetch/pkg/errors"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Type
		expectErr bool
	}{
		{name: "sha256", input: "sha256", expected: TypeSHA256},
		{name: "uppercase", input: "SHA512", expected: TypeSHA512},
		{name: "padded", input: " md5 ", expected: TypeMD5},
		{name: "sha1", input: "sha1", expected: TypeSHA1},
		{name: "unknown", input: "crc32", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.expectErr {
				require.ErrorIs(t, err, errors.ErrChecksumUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSum(t *testing.T) {
	digest := sha256Hex("content")

	typ, sum, err := ParseSum("sha256:" + digest)
	require.NoError(t, err)
	assert.Equal(t, TypeSHA256, typ)
	assert.Equal(t, digest, sum)

	_, _, err = ParseSum(digest)
	require.ErrorIs(t, err, errors.ErrChecksumUnsupported)

	_, _, err = ParseSum("sha256:")
	require.ErrorIs(t, err, errors.ErrChecksumUnsupported)

	_, _, err = ParseSum("crc32:" + digest)
	require.ErrorIs(t, err, errors.ErrChecksumUnsupported)
}

func TestVerify(t *testing.T) {
	content := "package payload"

	tests := []struct {
		name     string
		typ      Type
		expected string
		match    bool
	}{
		{name: "matching digest", typ: TypeSHA256, expected: sha256Hex(content), match: true},
		{name: "case insensitive", typ: TypeSHA256, expected: strings.ToUpper(sha256Hex(content)), match: true},
		{name: "mismatch", typ: TypeSHA256, expected: sha256Hex("other payload"), match: false},
	}

	v := NewVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := v.Verify(tt.typ, tt.expected, strings.NewReader(content))
			require.NoError(t, err)
			assert.Equal(t, tt.match, match)
		})
	}
}

func TestVerifyUnsupportedType(t *testing.T) {
	v := NewVerifier()
	_, err := v.Verify(TypeUnknown, "00", strings.NewReader("x"))
	require.ErrorIs(t, err, errors.ErrChecksumUnsupported)
}
