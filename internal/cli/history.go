package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <collections|seeds> <eid>",
		Short: "Show the backed-up versions of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindArg(args[0])
			if err != nil {
				return err
			}
			eid, err := strconv.Atoi(args[1])
			if err != nil {
				return userError(fmt.Errorf("eid %q: %w", args[1], types.ErrInvalidID))
			}
			return a.withCatalog(func(c *catalog.Catalog) error {
				entries, err := c.History(k, eid)
				if err != nil {
					return err
				}
				return printJSON(cmd, entries)
			})
		},
	}
}
