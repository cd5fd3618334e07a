// Package cli implements the taskboard command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/internal/paths"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	user      string
}

// app carries the state shared by one command invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	log       *logrus.Logger
}

// NewRootCmd creates the top-level "taskboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Kanban boards with ordered columns and tasks",
		Long: `taskboard keeps projects, boards, columns and tasks in a local SQLite
database. Columns within a board and tasks within a column hold dense
positions 1..N that stay gap-free across inserts, moves and deletes.`,
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.user, "user", "", "act as this owner id (default: config user)")

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newProjectCmd(),
		a.newBoardCmd(),
		a.newColumnCmd(),
		a.newTaskCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newServeCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskboard:", err)
	}
	os.Exit(exitCode(err))
}

// setup resolves the config directory, loads config.yaml and configures the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	a.configDir = configDir
	a.cfg = cfg

	a.log.SetOutput(cmd.ErrOrStderr())
	level, err := logrus.ParseLevel(cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError(fmt.Errorf("config %s: %w", cfgKeyLogLevel, err))
	}
	a.log.SetLevel(level)
	return nil
}

// dataDir resolves the data directory: --data-dir, then config, then env,
// then the platform default.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// caller returns the owner id commands act as.
func (a *app) caller() (string, error) {
	if a.flags.user != "" {
		return a.flags.user, nil
	}
	if u := a.cfg.GetString(cfgKeyUser); u != "" {
		return u, nil
	}
	return "", userError(errors.New("no user: pass --user or set user in config.yaml"))
}

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func (a *app) attachBackend() (*sqlite.Backend, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{
		Backend:       a.cfg.GetString(cfgKeyBackend),
		DataDir:       dataDir,
		BusyTimeoutMS: a.cfg.GetInt(cfgKeyBusyTimeout),
	}
	backend := sqlite.NewBackend(a.log)
	if err := backend.Attach(cfg); err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) ||
			errors.Is(err, types.ErrBusyTimeoutInvalid) {
			return nil, userError(fmt.Errorf("attach backend: %w", err))
		}
		return nil, systemError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, nil
}

// withService runs fn against a board service over a freshly attached
// backend, as the resolved caller.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *board.Service, caller string) error) error {
	caller, err := a.caller()
	if err != nil {
		return err
	}
	backend, err := a.attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()
	return fn(cmd.Context(), board.NewService(backend, a.log), caller)
}

// cliError tags an error with its exit code.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error   { return &cliError{code: exitUserError, err: err} }
func systemError(err error) error { return &cliError{code: exitSysError, err: err} }

// exitCode maps an error to the process exit code. Domain errors the caller
// can fix are user errors; everything else is a system error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidPosition),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidPriority):
		return exitUserError
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUserError
	}
	return exitSysError
}

// usageError wraps argument and flag parsing failures from cobra.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// args wraps a cobra positional-args validator so its failures map to the
// user-error exit code.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// out returns the command's stdout.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
