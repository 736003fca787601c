package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/feature"
)

// featuresCommand lists the feature catalogue.
func (c *CLI) featuresCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the features init and resolve accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				for _, name := range feature.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return renderFeatures(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print one feature name per line")
	return cmd
}
