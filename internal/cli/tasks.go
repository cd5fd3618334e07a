package cli

import (
	"context"
	"errors"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func (a *app) newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage a column's ordered tasks",
	}

	create := &cobra.Command{
		Use:   "create <column-id> <title>",
		Short: "Add a task; appends unless --position is given",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			pos, err := positionFlag(cmd)
			if err != nil {
				return err
			}
			draft := types.Task{ColumnID: argv[0], Title: argv[1]}
			draft.Description, _ = cmd.Flags().GetString("description")
			draft.Priority, _ = cmd.Flags().GetString("priority")
			if due, _ := cmd.Flags().GetString("due"); due != "" {
				if draft.DueDate, err = parseDate(due); err != nil {
					return err
				}
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				t, err := svc.CreateTask(ctx, caller, draft, pos)
				if err != nil {
					return err
				}
				return a.emit(cmd, t, func(w *tabwriter.Writer) { writeTasks(w, t) })
			})
		},
	}
	create.Flags().Int("position", 0, "1-based position; past the end appends")
	create.Flags().String("description", "", "task description")
	create.Flags().String("priority", "", "low, medium or high (default medium)")
	create.Flags().String("due", "", "due date, YYYY-MM-DD")

	list := &cobra.Command{
		Use:   "list <column-id>",
		Short: "List a column's tasks in order",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				tasks, err := svc.ListTasks(ctx, caller, argv[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, tasks, func(w *tabwriter.Writer) { writeTasks(w, tasks...) })
			})
		},
	}

	move := &cobra.Command{
		Use:   "move <task-id> [--column ID] [--position N]",
		Short: "Reorder a task or move it to another column",
		Long: `Reorder a task within its column, or move it to another column with
--column. Inside one column the position must lie in 1..N. In another column a
position past the end is clamped to the end, and no position appends.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			pos, err := positionFlag(cmd)
			if err != nil {
				return err
			}
			column, _ := cmd.Flags().GetString("column")
			if pos == nil && column == "" {
				return &usageError{err: errors.New("--position or --column is required")}
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				t, err := svc.MoveTask(ctx, caller, argv[0], column, pos)
				if err != nil {
					return err
				}
				return a.emit(cmd, t, func(w *tabwriter.Writer) { writeTasks(w, t) })
			})
		},
	}
	move.Flags().Int("position", 0, "1-based target position")
	move.Flags().String("column", "", "destination column id")

	edit := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's fields without moving it",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			changes, err := taskEditFromFlags(cmd)
			if err != nil {
				return err
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				t, err := svc.EditTask(ctx, caller, argv[0], changes)
				if err != nil {
					return err
				}
				return a.emit(cmd, t, func(w *tabwriter.Writer) { writeTasks(w, t) })
			})
		},
	}
	edit.Flags().String("title", "", "new title")
	edit.Flags().String("description", "", "new description")
	edit.Flags().String("priority", "", "low, medium or high")
	edit.Flags().Bool("completed", false, "mark done or not done")
	edit.Flags().String("due", "", "due date, YYYY-MM-DD")
	edit.Flags().Bool("clear-due", false, "remove the due date")

	del := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				if err := svc.DeleteTask(ctx, caller, argv[0]); err != nil {
					return err
				}
				return a.confirm(cmd, "task", argv[0])
			})
		},
	}

	cmd.AddCommand(create, list, move, edit, del)
	return cmd
}

// taskEditFromFlags collects the flags the user actually set.
func taskEditFromFlags(cmd *cobra.Command) (types.TaskEdit, error) {
	var edit types.TaskEdit
	flags := cmd.Flags()
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		edit.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		edit.Description = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		edit.Priority = &v
	}
	if flags.Changed("completed") {
		v, _ := flags.GetBool("completed")
		edit.Completed = &v
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		due, err := parseDate(v)
		if err != nil {
			return edit, err
		}
		edit.DueDate = due
	}
	edit.ClearDue, _ = flags.GetBool("clear-due")
	return edit, nil
}
