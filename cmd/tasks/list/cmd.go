// Package listcmd implements the `tasks list` command.
package listcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/models"
)

// Command implements `tasks list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service(cmd)
	if err != nil {
		return err
	}

	res, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Empty() {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}
	for _, t := range res.Tasks {
		writeTask(out, t)
	}
	fmt.Fprintf(out, "\nSummary: %d tasks | %d completed | %d pending\n",
		res.Summary.Total, res.Summary.Completed, res.Summary.Pending)
	return nil
}

func writeTask(w io.Writer, t models.Task) {
	status := "[ ]"
	if t.Done {
		status = "[x]"
	}
	text := t.Text
	if text == "" {
		text = "(no text)"
	}
	fmt.Fprintf(w, "%3d %s %s  (%s)\n", t.ID, status, text, t.CreatedAt)
}
