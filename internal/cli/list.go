package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every collection with its seeds",
		Long: `List prints each collection title followed by the names of its seeds,
indented by a tab, in the order the records were stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(func(c *catalog.Catalog) error {
				entries, err := c.Listing()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd, entries)
				}
				return catalog.WriteListing(cmd.OutOrStdout(), entries)
			})
		},
	}
}
