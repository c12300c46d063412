// Package cli implements the walkcat command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/walkcat/internal/logging"
	"github.com/mesh-intelligence/walkcat/internal/paths"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// app is the state of one invocation, filled in by setup before any
// subcommand runs.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	log       *zap.Logger
}

// NewRootCmd creates the top-level "walkcat" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:     "walkcat",
		Short:   "Catalogue web-archive collections and their seeds",
		Long:    "walkcat records metadata about web-archive collections and the seed sites\ncrawled for them, keeping every overwritten version in a backup table.",
		Version: Version,
		// Errors are printed once by Execute with the matching exit code.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .walkcat-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json or sqlite (default from config.yaml)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCollectionCmd(a))
	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newRenameCmd(a))
	root.AddCommand(newLoadCmd(a))
	root.AddCommand(newPurgeCmd(a))
	root.AddCommand(newExportCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "walkcat:", err)
		os.Exit(ExitCode(err))
	}
}

// setup resolves directories, loads config.yaml, and builds the logger and
// store configuration. Flags override the environment, which overrides the
// file.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	file, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	a.configDir = configDir

	level := file.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	if a.log, err = logging.New(a.flags.verbose, level); err != nil {
		return userError(err)
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, file.DataDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	backend := file.Backend
	if a.flags.backend != "" {
		backend = a.flags.backend
	}

	a.cfg = types.Config{
		Backend:  backend,
		DataDir:  dataDir,
		Document: file.Document,
		Sync:     file.Sync,
	}
	if err := a.cfg.Validate(); err != nil {
		return userError(fmt.Errorf("config: %w", err))
	}
	a.log.Debug("configuration resolved",
		zap.String("config_dir", configDir),
		zap.String("data_dir", dataDir),
		zap.String("backend", backend))
	return nil
}
