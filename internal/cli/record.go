package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

func newCollectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Set or show collection records",
	}
	cmd.AddCommand(newSetCmd(a, catalog.Collections,
		`walkcat collection set '{"collection_title": "Occupy Movement", "WALK_collection_folder": "WALK_occupy"}'`))
	cmd.AddCommand(newGetCmd(a, catalog.Collections, "<title> <folder>"))
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Set or show seed records",
	}
	cmd.AddCommand(newSetCmd(a, catalog.Seeds,
		`walkcat seed set -f seed.json`))
	cmd.AddCommand(newGetCmd(a, catalog.Seeds, "<title> <folder> <seed>"))
	return cmd
}

// newSetCmd upserts one record of kind k given as a JSON object.
func newSetCmd(a *app, k catalog.Kind, example string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set [json]",
		Short: fmt.Sprintf("Insert a %s, or overwrite it keeping a backup", k.Name),
		Long: fmt.Sprintf("Insert a %s record, or overwrite the existing record with the same key\n(%s) after copying it to %s.",
			k.Name, strings.Join(k.Key, ", "), k.Backup),
		Example: "  " + example,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			switch {
			case len(args) == 1 && file != "":
				return userError(errors.New("give the record as an argument or with --file, not both"))
			case len(args) == 1:
				payload = []byte(args[0])
			case file != "":
				data, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				payload = data
			default:
				return userError(errors.New("no record given (pass JSON or --file)"))
			}

			var fields types.Fields
			if err := json.Unmarshal(payload, &fields); err != nil {
				return userError(fmt.Errorf("parse JSON: %w", err))
			}

			return a.withCatalog(func(c *catalog.Catalog) error {
				r, err := c.Upsert(k, fields)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd, r)
				}
				if r.Inserted {
					fmt.Fprintf(cmd.OutOrStdout(), "inserted %s %d\n", k.Name, r.EID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s %d (backup %d)\n", k.Name, r.EID, r.BackupEID)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the JSON record from a file (- for stdin)")
	return cmd
}

// newGetCmd prints the record of kind k whose key equals the arguments.
func newGetCmd(a *app, k catalog.Kind, argNames string) *cobra.Command {
	return &cobra.Command{
		Use:   "get " + argNames,
		Short: fmt.Sprintf("Show a %s by key", k.Name),
		Args:  cobra.ExactArgs(len(k.Key)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make(types.Fields, len(k.Key))
			for i, field := range k.Key {
				key[field] = args[i]
			}
			return a.withCatalog(func(c *catalog.Catalog) error {
				doc, err := c.Find(k, key)
				if err != nil {
					return err
				}
				return printJSON(cmd, doc)
			})
		},
	}
}
