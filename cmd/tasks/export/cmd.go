// Package exportcmd implements the `tasks export` command.
package exportcmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/export"
)

// Command implements `tasks export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	format string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export",
		Short: "Print the task list as a Markdown checklist or YAML",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.format, "format", export.FormatMarkdown,
		"Output format: "+strings.Join(export.Formats, " | "))

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
	return export.Write(cmd.OutOrStdout(), c.format, res.Tasks)
}
