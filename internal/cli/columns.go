package cli

import (
	"context"
	"errors"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
)

func (a *app) newColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage a board's ordered columns",
	}

	create := &cobra.Command{
		Use:   "create <board-id> <name>",
		Short: "Add a column; appends unless --position is given",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			pos, err := positionFlag(cmd)
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				c, err := svc.CreateColumn(ctx, caller, argv[0], argv[1], pos)
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w *tabwriter.Writer) { writeColumns(w, c) })
			})
		},
	}
	create.Flags().Int("position", 0, "1-based position; past the end appends")

	list := &cobra.Command{
		Use:   "list <board-id>",
		Short: "List a board's columns in order",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				cols, err := svc.ListColumns(ctx, caller, argv[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, cols, func(w *tabwriter.Writer) { writeColumns(w, cols...) })
			})
		},
	}

	move := &cobra.Command{
		Use:   "move <column-id> --position N",
		Short: "Reorder a column within its board",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			pos, err := positionFlag(cmd)
			if err != nil {
				return err
			}
			if pos == nil {
				return &usageError{err: errors.New("--position is required")}
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				c, err := svc.MoveColumn(ctx, caller, argv[0], pos)
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w *tabwriter.Writer) { writeColumns(w, c) })
			})
		},
	}
	move.Flags().Int("position", 0, "1-based target position")

	rename := &cobra.Command{
		Use:   "rename <column-id> <name>",
		Short: "Rename a column",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				c, err := svc.RenameColumn(ctx, caller, argv[0], argv[1])
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w *tabwriter.Writer) { writeColumns(w, c) })
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column and its tasks",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				if err := svc.DeleteColumn(ctx, caller, argv[0]); err != nil {
					return err
				}
				return a.confirm(cmd, "column", argv[0])
			})
		},
	}

	cmd.AddCommand(create, list, move, rename, del)
	return cmd
}
