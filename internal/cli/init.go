package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/paths"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize walkcat storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup already wrote config.yaml; attaching creates the data files.
			if err := a.withStore(func(types.Store) error { return nil }); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "walkcat initialized")
			fmt.Fprintln(out, "  config: ", paths.ConfigFile(a.configDir))
			fmt.Fprintln(out, "  data:   ", a.cfg.DataDir)
			fmt.Fprintln(out, "  backend:", a.cfg.Backend)
			return nil
		},
	}
}
