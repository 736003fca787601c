package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/pipeline"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the scripts and pinned dependencies for a feature selection",
		Long: `Resolve a feature selection without touching any project.

Every dependency is pinned to an exact published version. Packages under a
version constraint (husky below 5, tailwindcss below 2 with legacy browser
support, and any --constraints overrides) get the newest stable release that
satisfies it; every other package gets its latest tag.`,
		Example: `  toolkit resolve --react --jest
  toolkit resolve --with nextjs,tailwind --drop-ie11 --format json
  toolkit resolve --typescript --constraints constraints.toml --format yaml`,
		Args: cobra.NoArgs,
	}
	ff := addFeatureFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		res, _, err := c.execute(cmd.Context(), ff)
		if err != nil {
			return err
		}
		if f == formatTable {
			printStats(res.Stats)
		}
		return renderResolved(cmd.OutOrStdout(), res.Resolved, f)
	}
	return cmd
}

// execute runs the pipeline for the flag selection with a spinner on stderr.
func (c *CLI) execute(ctx context.Context, ff *featureFlags) (*pipeline.Result, feature.Config, error) {
	cfg, err := ff.config()
	if err != nil {
		return nil, feature.Config{}, err
	}
	overrides, err := ff.overrides(c.settings.Constraints)
	if err != nil {
		return nil, feature.Config{}, err
	}

	reg, ch, err := c.newRegistry(ctx, registryOptions{noCache: ff.noCache, refresh: ff.refresh})
	if err != nil {
		return nil, feature.Config{}, err
	}
	defer ch.Close()

	opts := c.pipelineOptions()
	opts.Constraints = overrides

	logger := loggerFromContext(ctx)
	logger.Debug("resolving", "features", cfg.Features(), "node", cfg.NodeVersion(), "packager", cfg.Packager(), "registry", c.settings.Registry)

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Resolving %d features...", len(cfg.Features())))
	spin.Start()
	res, err := c.newRunner(reg, nil).Execute(ctx, cfg, opts)
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
			return nil, cfg, err
		}
		spin.StopWithError("Resolution failed")
		return nil, cfg, err
	}
	spin.StopWithSuccess("Resolved %d packages", res.Stats.Packages)
	return res, cfg, nil
}
