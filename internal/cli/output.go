package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(out(cmd), string(data))
	return nil
}

// emit prints v as JSON in --json mode and through text otherwise.
func (a *app) emit(cmd *cobra.Command, v any, text func(w *tabwriter.Writer)) error {
	if a.flags.jsonMode {
		return printJSON(cmd, v)
	}
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	text(w)
	return w.Flush()
}

func writeProjects(w *tabwriter.Writer, projects ...*types.Project) {
	fmt.Fprintln(w, "ID\tNAME\tARCHIVED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%t\n", p.ProjectID, p.Name, p.Archived)
	}
}

func writeBoards(w *tabwriter.Writer, boards ...*types.Board) {
	fmt.Fprintln(w, "ID\tNAME")
	for _, b := range boards {
		fmt.Fprintf(w, "%s\t%s\n", b.BoardID, b.Name)
	}
}

func writeColumns(w *tabwriter.Writer, cols ...*types.Column) {
	fmt.Fprintln(w, "POS\tID\tNAME")
	for _, c := range cols {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Position, c.ColumnID, c.Name)
	}
}

func writeTasks(w *tabwriter.Writer, tasks ...*types.Task) {
	fmt.Fprintln(w, "POS\tID\tTITLE\tPRIORITY\tDONE\tDUE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", t.Position, t.TaskID, t.Title, t.Priority, t.Completed, due)
	}
}

// positionFlag returns the --position value, or nil when the flag was not
// given.
func positionFlag(cmd *cobra.Command) (*int, error) {
	if !cmd.Flags().Changed("position") {
		return nil, nil
	}
	p, err := cmd.Flags().GetInt("position")
	if err != nil {
		return nil, &usageError{err: err}
	}
	return &p, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(v string) (*time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, userError(fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v))
}
