package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
)

// newTodosCommand creates `tbk todos --status --type --due-before`: lists
// todos across all cases with the same filters the API offers.
func newTodosCommand(opts *RootOptions) *cobra.Command {
	var (
		status    string
		todoType  string
		dueBefore string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List scheduled reminder and gate todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := todo.Filter{}
			if status != "" {
				s, err := todo.ParseStatus(strings.ToUpper(status))
				if err != nil {
					return err
				}
				f.Status = s
			}
			if todoType != "" {
				f.Type = todo.Type(strings.ToUpper(todoType))
			}
			if dueBefore != "" {
				t, err := time.Parse(time.RFC3339, dueBefore)
				if err != nil {
					t, err = time.Parse("2006-01-02", dueBefore)
				}
				if err != nil {
					return fmt.Errorf("--due-before must be an RFC 3339 timestamp or a YYYY-MM-DD date")
				}
				f.DueBefore = &t
			}

			svc, _, cleanup, err := newSchedulingService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			todos, err := svc.ListTodos(cmd.Context(), f)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), todos)
			}
			return printTodoTable(cmd, todos)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (open|dismissed)")
	cmd.Flags().StringVar(&todoType, "type", "", "filter by type (timebar_reminder|missing_voyage_end_date)")
	cmd.Flags().StringVar(&dueBefore, "due-before", "", "only todos due before this date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")
	return cmd
}

func printTodoTable(cmd *cobra.Command, todos []*todo.Todo) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tTYPE\tSTATUS\tDUE\tTITLE")
	for _, t := range todos {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", t.ID, t.CaseID, t.Type, t.Status, due, t.Title)
	}
	return w.Flush()
}

//Personal.AI order the ending
