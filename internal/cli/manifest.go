package cli

import (
	"os"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/repofetch/pkg/checksum"
	"github.com/glorpus-work/repofetch/pkg/errors"
	"github.com/glorpus-work/repofetch/pkg/model"
)

// manifestAPIConstraint is the range of manifest format versions this build
// understands.
var manifestAPIConstraint = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))

// Manifest is a YAML batch description: one file listing every package to
// fetch in a single run.
type Manifest struct {
	APIVersion string            `yaml:"apiVersion"`
	Packages   []ManifestPackage `yaml:"packages"`
}

// ManifestPackage describes one package entry of a manifest.
type ManifestPackage struct {
	// URL is the path of the package relative to the repository root.
	URL string `yaml:"url"`

	// Dest is an optional destination hint: a directory, a full file path, or
	// empty for the default destination.
	Dest string `yaml:"dest,omitempty"`

	// Checksum is the expected checksum in "<type>:<hex>" form.
	Checksum string `yaml:"checksum,omitempty"`

	// Size is the expected file size in bytes; zero disables the size check.
	Size int64 `yaml:"size,omitempty"`

	// BaseURL overrides the configured mirrors for this entry only.
	BaseURL string `yaml:"base_url,omitempty"`

	// Resume continues a partial download instead of starting over.
	Resume bool `yaml:"resume,omitempty"`
}

// LoadManifest reads and validates a batch manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}

	if manifest.APIVersion == "" {
		return nil, errors.Wrap(errors.ErrManifestParse, "apiVersion is required")
	}
	apiVersion, err := version.NewVersion(manifest.APIVersion)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrManifestParse, "invalid apiVersion %q", manifest.APIVersion)
	}
	if !manifestAPIConstraint.Check(apiVersion) {
		return nil, errors.Wrapf(errors.ErrManifestVersion,
			"apiVersion %s is outside the supported range %s", manifest.APIVersion, manifestAPIConstraint)
	}
	if len(manifest.Packages) == 0 {
		return nil, errors.Wrap(errors.ErrManifestParse, "manifest lists no packages")
	}

	return &manifest, nil
}

// Requests converts the manifest entries into package requests, preserving
// their order.
func (m *Manifest) Requests(progress model.ProgressFunc) ([]*model.PackageRequest, error) {
	requests := make([]*model.PackageRequest, 0, len(m.Packages))
	for _, pkg := range m.Packages {
		sumType, sum := checksum.TypeUnknown, ""
		if pkg.Checksum != "" {
			var err error
			sumType, sum, err = checksum.ParseSum(pkg.Checksum)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest entry %s", pkg.URL)
			}
		}

		req, err := model.NewPackageRequest(pkg.URL, pkg.Dest, sumType, sum, pkg.Size, pkg.BaseURL, pkg.Resume, progress)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest entry %q", pkg.URL)
		}
		requests = append(requests, req)
	}
	return requests, nil
}
