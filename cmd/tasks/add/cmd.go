// Package addcmd implements the `tasks add` command.
package addcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/service"
)

// Command implements `tasks add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Long:  "Add a task. Multiple arguments are joined with spaces, so quoting is optional.",
		Args:  cobra.ArbitraryArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(cmd)
	if err != nil {
		return err
	}

	task, err := svc.Add(cmd.Context(), strings.Join(args, " "))
	if errors.Is(err, service.ErrInvalidInput) {
		return fmt.Errorf("%w (usage: tasks add \"task description\")", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %q\n", task.ID, task.Text)
	return nil
}
