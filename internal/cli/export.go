package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
	"github.com/mesh-intelligence/walkcat/pkg/store"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var toBackend, toDataDir string
	cmd := &cobra.Command{
		Use:   "export [table...]",
		Short: "Copy tables into another store, keeping eids",
		Long: `Export copies tables (all non-empty tables by default) from the current
store into another one, replacing the destination tables. Typical use is
moving a notebook's JSON catalogue into SQLite.`,
		Example: "  walkcat export --to-backend sqlite --to-data-dir ./catalog-db",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(toDataDir)
			if err != nil {
				return systemError(err)
			}
			dstCfg := types.Config{
				Backend:  toBackend,
				DataDir:  dir,
				Document: a.cfg.Document,
			}
			if err := dstCfg.Validate(); err != nil {
				return userError(fmt.Errorf("destination: %w", err))
			}
			if dstCfg.Backend == a.cfg.Backend && dstCfg.DataDir == a.cfg.DataDir {
				return userError(errors.New("destination is the current store"))
			}

			var tables []string
			if len(args) > 0 {
				tables = args
			}

			return a.withStore(func(src types.Store) (err error) {
				dst, err := store.Open(dstCfg)
				if err != nil {
					return fmt.Errorf("attach destination: %w", err)
				}
				defer func() {
					if derr := dst.Detach(); derr != nil && err == nil {
						err = fmt.Errorf("detach destination: %w", derr)
					}
				}()

				counts, err := catalog.Export(dst, src, tables)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd, counts)
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, counts[name])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&toBackend, "to-backend", types.BackendSQLite, "destination backend: json or sqlite")
	cmd.Flags().StringVar(&toDataDir, "to-data-dir", "", "destination data directory")
	_ = cmd.MarkFlagRequired("to-data-dir")
	return cmd
}
