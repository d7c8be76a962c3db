// Package donecmd implements the `tasks done` command.
package donecmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/service"
)

// Command implements `tasks done`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the done command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  shared.ExactID,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := shared.ParseID(args[0])
	if err != nil {
		return err
	}
	svc, err := c.ctx.Service(cmd)
	if err != nil {
		return err
	}

	_, err = svc.Done(cmd.Context(), id)
	switch {
	case errors.Is(err, service.ErrAlreadyDone):
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d was already completed.\n", id)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked as completed.\n", id)
	return nil
}
