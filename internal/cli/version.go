package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the taskboard release, set at link time with
// -ldflags "-X github.com/mesh-intelligence/taskboard/internal/cli.Version=...".
var Version = "0.1.0-dev"

const modulePath = "github.com/mesh-intelligence/taskboard"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskboard version",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
