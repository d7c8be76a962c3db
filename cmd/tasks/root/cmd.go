// Package rootcmd wires the root cobra.Command for the tasks CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/tasks/cmd/tasks/add"
	clearcmd "github.com/go-ports/tasks/cmd/tasks/clear"
	configcmd "github.com/go-ports/tasks/cmd/tasks/config"
	deletecmd "github.com/go-ports/tasks/cmd/tasks/delete"
	donecmd "github.com/go-ports/tasks/cmd/tasks/done"
	exportcmd "github.com/go-ports/tasks/cmd/tasks/export"
	initcmd "github.com/go-ports/tasks/cmd/tasks/init"
	listcmd "github.com/go-ports/tasks/cmd/tasks/list"
	mcpcmd "github.com/go-ports/tasks/cmd/tasks/mcp"
	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the tasks CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "tasks",
		Short:         "Task Manager CLI: add, list, complete and delete short tasks",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.TasksHome, "tasks-home", "",
		"Override tasks home directory (default: $TASKS_HOME env → persisted config → ~/.tasks)",
	)

	root.AddCommand(
		addcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		donecmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		initcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
