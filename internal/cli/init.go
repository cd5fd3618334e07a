package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskboard storage",
		Long:  "Create the configuration and data directories, then create the database schema.",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			if err := backend.Detach(); err != nil {
				return systemError(fmt.Errorf("finalize storage: %w", err))
			}
			dataDir, err := a.dataDir()
			if err != nil {
				return systemError(err)
			}

			if a.flags.jsonMode {
				return printJSON(cmd, map[string]string{"config_dir": a.configDir, "data_dir": dataDir})
			}
			fmt.Fprintln(out(cmd), "taskboard initialized")
			fmt.Fprintln(out(cmd), "  config:", a.configDir)
			fmt.Fprintln(out(cmd), "  data:  ", dataDir)
			return nil
		},
	}
}
