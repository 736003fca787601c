package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
)

// checkCommand verifies a package.json pins every dependency exactly.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [package.json]",
		Short: "Fail when a dependency is not pinned to an exact version",
		Long: `Check that every entry in dependencies, devDependencies, peerDependencies
and optionalDependencies starts with a digit or letter, i.e. carries no
range operator such as ^ or ~.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "package.json"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
			}
			doc, err := manifest.ReadFile(path)
			if err != nil {
				return err
			}
			unpinned, err := manifest.FindUnpinned(doc)
			if err != nil {
				return err
			}
			if len(unpinned) == 0 {
				printSuccess("All dependencies in %s are pinned", path)
				return nil
			}

			out := cmd.OutOrStdout()
			for _, u := range unpinned {
				fmt.Fprintf(out, "%s\t%s\t%s\n", u.Field, u.Name, u.Version)
			}
			return errors.New(errors.ErrCodeInvalidManifest, "%d of the dependencies in %s are not pinned exactly", len(unpinned), path)
		},
	}
}
