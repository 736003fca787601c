package feature

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/packager"
)

const (
	// DefaultNodeVersion is used when no Node version is given.
	DefaultNodeVersion = "12.20.1"
	// DefaultCIBranch is the branch the CI workflow runs on.
	DefaultCIBranch = "main"
)

// Options is the raw user input NewConfig validates.
type Options struct {
	Features    []Feature
	NodeVersion string           // semver, default DefaultNodeVersion
	Packager    packager.Manager // default Yarn
	DropIE11    bool             // drop legacy browser support
	CIMode      bool             // reference the own package as a local tarball
	CIBranch    string           // default DefaultCIBranch
}

// Config is the immutable configuration every resolver reads. Build it with
// NewConfig; the zero value is not usable.
type Config struct {
	features    []Feature
	nodeVersion string
	nodeMajor   uint64
	packager    packager.Manager
	legacy      bool
	ciMode      bool
	ciBranch    string
	valid       bool
}

// NewConfig validates opts and freezes them into a Config. Features keep
// the caller's order with duplicates removed; NextJS pulls in React.
func NewConfig(opts Options) (Config, error) {
	nodeVersion := strings.TrimPrefix(strings.TrimSpace(opts.NodeVersion), "v")
	if nodeVersion == "" {
		nodeVersion = DefaultNodeVersion
	}
	if err := errors.ValidateVersion(nodeVersion); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "node version")
	}
	v := semver.MustParse(nodeVersion)

	pm := opts.Packager
	if pm == "" {
		pm = packager.Yarn
	}
	if _, err := packager.ParseManager(string(pm)); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "package manager")
	}

	branch := strings.TrimSpace(opts.CIBranch)
	if branch == "" {
		branch = DefaultCIBranch
	}

	features := make([]Feature, 0, len(opts.Features)+1)
	for _, f := range opts.Features {
		if !f.Valid() {
			return Config{}, errors.New(errors.ErrCodeInvalidFeature, "unknown feature %d", int(f))
		}
		if f == NextJS && !slices.Contains(features, React) {
			features = append(features, React)
		}
		if !slices.Contains(features, f) {
			features = append(features, f)
		}
	}

	return Config{
		features:    features,
		nodeVersion: nodeVersion,
		nodeMajor:   v.Major(),
		packager:    pm,
		legacy:      !opts.DropIE11,
		ciMode:      opts.CIMode,
		ciBranch:    branch,
		valid:       true,
	}, nil
}

// Valid reports whether c was built by NewConfig.
func (c Config) Valid() bool { return c.valid }

// Features returns the enabled features in caller order.
func (c Config) Features() []Feature { return slices.Clone(c.features) }

// Has reports whether f is enabled.
func (c Config) Has(f Feature) bool { return slices.Contains(c.features, f) }

func (c Config) NodeVersion() string { return c.nodeVersion }
func (c Config) NodeMajor() uint64 { return c.nodeMajor }
func (c Config) Packager() packager.Manager { return c.packager }
func (c Config) LegacyBrowserSupport() bool { return c.legacy }
func (c Config) CIMode() bool { return c.ciMode }
func (c Config) CIBranch() string { return c.ciBranch }
