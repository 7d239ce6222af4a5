// Package mirror prepares the internal mirrorlist of a download handle.
package mirror

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/glorpus-work/repofetch/pkg/errors"
)

// RepoKind tells what kind of repository a set of mirrors serves. Package
// downloads are only valid against package repositories.
type RepoKind int

// Known repository kinds.
const (
	RepoKindUnknown RepoKind = iota
	RepoKindPackages
	RepoKindIndex
)

// String returns the configuration name of the repository kind.
func (k RepoKind) String() string {
	switch k {
	case RepoKindPackages:
		return "packages"
	case RepoKindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// ParseRepoKind maps a configuration value to a RepoKind.
func ParseRepoKind(s string) (RepoKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "packages":
		return RepoKindPackages, nil
	case "index":
		return RepoKindIndex, nil
	default:
		return RepoKindUnknown, errors.Wrapf(errors.ErrConfigValidation, "unknown repo kind %q", s)
	}
}

// Provider serves the prepared mirrorlist for a handle.
type Provider interface {
	// Kind reports what the mirrors serve.
	Kind() RepoKind
	// Prepare validates and normalizes the configured base URLs. It is called
	// once per batch and may cache its result.
	Prepare(ctx context.Context) ([]*url.URL, error)
}

// StaticProvider serves a fixed list of base URLs. Validation happens on the
// first Prepare call and the result is cached for the provider's lifetime.
type StaticProvider struct {
	kind RepoKind
	raw  []string

	mu       sync.Mutex
	prepared []*url.URL
}

// NewStaticProvider creates a provider over a fixed set of mirror base URLs.
func NewStaticProvider(kind RepoKind, baseURLs []string) *StaticProvider {
	return &StaticProvider{kind: kind, raw: baseURLs}
}

// Kind reports what the mirrors serve.
func (p *StaticProvider) Kind() RepoKind {
	return p.kind
}

// Prepare parses and validates the configured base URLs, keeping their
// configured order. Mirrors without a scheme or host are rejected.
func (p *StaticProvider) Prepare(ctx context.Context) ([]*url.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.prepared != nil {
		out := make([]*url.URL, len(p.prepared))
		copy(out, p.prepared)
		return out, nil
	}

	prepared := make([]*url.URL, 0, len(p.raw))
	for _, raw := range p.raw {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid mirror URL %q", raw)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.Wrapf(errors.ErrConfigValidation, "mirror URL %q must be absolute", raw)
		}
		prepared = append(prepared, u)
	}
	if len(prepared) == 0 {
		return nil, errors.ErrNoMirrors
	}

	p.prepared = prepared
	out := make([]*url.URL, len(prepared))
	copy(out, prepared)
	return out, nil
}
