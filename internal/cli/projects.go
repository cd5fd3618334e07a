package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func (a *app) newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			desc, _ := cmd.Flags().GetString("description")
			color, _ := cmd.Flags().GetString("color")
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				p, err := svc.CreateProject(ctx, caller, types.Project{Name: argv[0], Description: desc, Color: color})
				if err != nil {
					return err
				}
				return a.emit(cmd, p, func(w *tabwriter.Writer) { writeProjects(w, p) })
			})
		},
	}
	create.Flags().String("description", "", "project description")
	create.Flags().String("color", "", "display color")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				projects, err := svc.ListProjects(ctx, caller)
				if err != nil {
					return err
				}
				return a.emit(cmd, projects, func(w *tabwriter.Writer) { writeProjects(w, projects...) })
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change a project's name, description, color or archived flag",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			var edit types.ProjectEdit
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				edit.Name = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				edit.Description = &v
			}
			if cmd.Flags().Changed("color") {
				v, _ := cmd.Flags().GetString("color")
				edit.Color = &v
			}
			if cmd.Flags().Changed("archived") {
				v, _ := cmd.Flags().GetBool("archived")
				edit.Archived = &v
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				p, err := svc.UpdateProject(ctx, caller, argv[0], edit)
				if err != nil {
					return err
				}
				return a.emit(cmd, p, func(w *tabwriter.Writer) { writeProjects(w, p) })
			})
		},
	}
	update.Flags().String("name", "", "new name")
	update.Flags().String("description", "", "new description")
	update.Flags().String("color", "", "new color")
	update.Flags().Bool("archived", false, "archive or unarchive")

	del := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with all its boards, columns and tasks",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				if err := svc.DeleteProject(ctx, caller, argv[0]); err != nil {
					return err
				}
				return a.confirm(cmd, "project", argv[0])
			})
		},
	}

	cmd.AddCommand(create, list, update, del)
	return cmd
}

func (a *app) newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	create := &cobra.Command{
		Use:   "create <project-id> <name>",
		Short: "Create a board in a project",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			desc, _ := cmd.Flags().GetString("description")
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				b, err := svc.CreateBoard(ctx, caller, types.Board{ProjectID: argv[0], Name: argv[1], Description: desc})
				if err != nil {
					return err
				}
				return a.emit(cmd, b, func(w *tabwriter.Writer) { writeBoards(w, b) })
			})
		},
	}
	create.Flags().String("description", "", "board description")

	list := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's boards",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				boards, err := svc.ListBoards(ctx, caller, argv[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, boards, func(w *tabwriter.Writer) { writeBoards(w, boards...) })
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board with its columns and tasks",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service, caller string) error {
				if err := svc.DeleteBoard(ctx, caller, argv[0]); err != nil {
					return err
				}
				return a.confirm(cmd, "board", argv[0])
			})
		},
	}

	cmd.AddCommand(create, list, del)
	return cmd
}

// confirm reports a successful delete.
func (a *app) confirm(cmd *cobra.Command, kind, id string) error {
	if a.flags.jsonMode {
		return printJSON(cmd, map[string]string{"deleted": kind, "id": id})
	}
	fmt.Fprintf(out(cmd), "deleted %s %s\n", kind, id)
	return nil
}
