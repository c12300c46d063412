package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
)

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <title> <folder> <new-title> <new-folder>",
		Short: "Re-key a collection and its seeds",
		Long: `Rename changes a collection's title and folder, and those of every seed
that references it. Each changed record is backed up first.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(func(c *catalog.Catalog) error {
				r, err := c.RenameCollection(args[0], args[1], args[2], args[3])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd, r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed collection %d and %d seeds\n", r.Collection.EID, len(r.Seeds))
				return nil
			})
		},
	}
}
