package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
)

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Upsert the collections and seeds listed in a YAML or JSON file",
		Long: `Load reads a file with "collections" and "seeds" lists and upserts every
record in order, collections first. The file is checked completely before
anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			batch, err := catalog.ParseBatch(bytes.NewReader(data))
			if err != nil {
				return userError(err)
			}
			return a.withCatalog(func(c *catalog.Catalog) error {
				sum, err := c.Load(batch)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd, sum)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, updated %d\n", sum.Inserted, sum.Updated)
				return nil
			})
		},
	}
}
