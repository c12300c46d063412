package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
	"github.com/mesh-intelligence/walkcat/pkg/store"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// withStore attaches the configured store, runs fn, and detaches. A failed
// detach is reported even when fn succeeded, because on_close stores write
// their data there.
func (a *app) withStore(fn func(s types.Store) error) (err error) {
	s, err := store.Open(a.cfg)
	if err != nil {
		return classify(fmt.Errorf("attach store: %w", err))
	}
	defer func() {
		if derr := s.Detach(); derr != nil && err == nil {
			err = systemError(fmt.Errorf("detach store: %w", derr))
		}
	}()
	return classify(fn(s))
}

// withCatalog is withStore for commands that only need record procedures.
func (a *app) withCatalog(fn func(c *catalog.Catalog) error) error {
	return a.withStore(func(s types.Store) error {
		return fn(catalog.New(s, catalog.WithLogger(a.log)))
	})
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// readInput reads a named file, or standard input for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, systemError(fmt.Errorf("read stdin: %w", err))
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, userError(err)
		}
		return nil, systemError(err)
	}
	return data, nil
}

// kindArg resolves a table name argument to a record kind.
func kindArg(name string) (catalog.Kind, error) {
	k, err := catalog.KindByTable(name)
	if err != nil {
		return catalog.Kind{}, userError(fmt.Errorf("unknown table %q (valid: %s, %s)",
			name, catalog.Collections.Main, catalog.Seeds.Main))
	}
	return k, nil
}
