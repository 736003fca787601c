package cli

import (
	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/packager"
)

// featureFlags are the selection flags shared by init and resolve.
type featureFlags struct {
	enabled     map[feature.Feature]*bool
	with        []string
	node        string
	npm         bool
	dropIE11    bool
	ci          bool
	ciBranch    string
	constraints string
	noCache     bool
	refresh     bool
}

func addFeatureFlags(cmd *cobra.Command) *featureFlags {
	ff := &featureFlags{enabled: make(map[feature.Feature]*bool)}
	fs := cmd.Flags()
	for _, f := range feature.All() {
		ff.enabled[f] = fs.Bool(f.String(), false, f.Description())
	}
	fs.StringSliceVar(&ff.with, "with", nil, "features by name, comma-separated (e.g. react,jest)")
	fs.StringVar(&ff.node, "node", feature.DefaultNodeVersion, "target Node.js version")
	fs.BoolVar(&ff.npm, "npm", false, "use npm instead of yarn")
	fs.BoolVar(&ff.dropIE11, "drop-ie11", false, "drop legacy browser support")
	fs.BoolVar(&ff.ci, "ci", false, "reference the toolkit package as a local tarball")
	fs.StringVar(&ff.ciBranch, "ci-branch", feature.DefaultCIBranch, "branch the CI workflow runs on")
	fs.StringVar(&ff.constraints, "constraints", "", "TOML file with version constraint overrides")
	fs.BoolVar(&ff.noCache, "no-cache", false, "bypass the registry response cache")
	fs.BoolVar(&ff.refresh, "refresh", false, "refetch registry responses and update the cache")

	_ = cmd.RegisterFlagCompletionFunc("with", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return feature.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	return ff
}

// config builds the immutable feature configuration from the flags.
func (ff *featureFlags) config() (feature.Config, error) {
	var selected []feature.Feature
	for _, f := range feature.All() {
		if p := ff.enabled[f]; p != nil && *p {
			selected = append(selected, f)
		}
	}
	named, err := feature.ParseList(ff.with)
	if err != nil {
		return feature.Config{}, err
	}
	selected = append(selected, named...)

	pm := packager.Yarn
	if ff.npm {
		pm = packager.Npm
	}
	return feature.NewConfig(feature.Options{
		Features:    selected,
		NodeVersion: ff.node,
		Packager:    pm,
		DropIE11:    ff.dropIE11,
		CIMode:      ff.ci,
		CIBranch:    ff.ciBranch,
	})
}

// overrides loads the constraint override file named by the flag, falling
// back to the configured one.
func (ff *featureFlags) overrides(fallback string) (constraint.Table, error) {
	path := ff.constraints
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil, nil
	}
	return constraint.LoadFile(path)
}
