package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
	"github.com/jedrzejginter/toolkit/pkg/packager"
)

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var (
		noInstall bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Add the selected features to a project's package.json",
		Long: `Resolve the selected features and merge the result into package.json.

Existing fields are kept; scripts and dependencies from the selection
overwrite entries with the same name. After writing package.json the
project's dependencies are installed and "lint --fix" is run, unless
--no-install or --dry-run is given.`,
		Example: `  toolkit init --react --typescript --jest
  toolkit init ./app --nextjs --tailwind --docker --npm
  toolkit init --with react,github-ci --ci-branch develop --dry-run`,
		Args: cobra.MaximumNArgs(1),
	}
	ff := addFeatureFlags(cmd)
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "skip dependency installation and formatting")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the resulting package.json instead of writing it")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "project directory")
		}
		ctx := cmd.Context()
		logger := loggerFromContext(ctx)

		res, cfg, err := c.execute(ctx, ff)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, "package.json")
		doc, err := manifest.ReadFile(path)
		if err != nil {
			return err
		}
		err = manifest.Apply(doc, res.Resolved, manifest.ApplyOptions{
			Name:      filepath.Base(dir),
			NodeMajor: cfg.NodeMajor(),
		})
		if err != nil {
			return err
		}

		if dryRun {
			data, err := doc.Bytes()
			if err != nil {
				return err
			}
			printInfo("Dry run: %s was not written", path)
			printPlan(res.Files)
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create project directory: %w", err)
		}
		if err := doc.WriteFile(path); err != nil {
			return err
		}
		printSuccess("Updated %s", path)
		printStats(res.Stats)
		printPlan(res.Files)

		if noInstall {
			printNextStep("Install dependencies", strings.Join(cfg.Packager().InstallArgs(), " "))
			return nil
		}

		if cfg.CIMode() {
			printWarning("CI mode: %s resolves to %s; run npm pack for it inside %s",
				feature.OwnPackage, res.Resolved.Dependencies[feature.OwnPackage], dir)
		}

		run := &packager.Runner{Manager: cfg.Packager(), Dir: dir}
		prog := newProgress(logger)
		logger.Info("Installing dependencies", "packager", cfg.Packager())
		if err := run.Install(ctx); err != nil {
			return err
		}
		prog.done("Installed dependencies")

		prog = newProgress(logger)
		if err := run.Format(ctx); err != nil {
			return err
		}
		prog.done("Formatted project")
		printSuccess("Project ready")
		return nil
	}
	return cmd
}
