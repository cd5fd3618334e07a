package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every table to dir as JSONL",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			dir, err := filepath.Abs(argv[0])
			if err != nil {
				return systemError(err)
			}
			if err := backend.Export(cmd.Context(), dir); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]string{"exported": dir})
			}
			fmt.Fprintln(out(cmd), "exported to", dir)
			return nil
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load a JSONL export into an empty database",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			dir, err := filepath.Abs(argv[0])
			if err != nil {
				return systemError(err)
			}
			if err := backend.Import(cmd.Context(), dir); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]string{"imported": dir})
			}
			fmt.Fprintln(out(cmd), "imported from", dir)
			return nil
		},
	}
}
