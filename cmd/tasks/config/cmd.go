// Package configcmd implements the `tasks config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/tasks/cmd/tasks/shared"
	"github.com/go-ports/tasks/internal/config"
)

const configTemplate = `# Task Manager configuration

# Where the task list is stored.
store:
  backend: json                 # json | sqlite
  file: tasks.json              # relative to the tasks home; use tasks.db for sqlite
`

// Command implements `tasks config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(),
		newClearHome(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := config.ResolveTasksHome(c.ctx.TasksHome)
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return err
	}
	data := map[string]any{
		"store": map[string]any{
			"backend": cfg.Store.Backend,
			"file":    cfg.Store.File,
			"path":    cfg.StorePath(home),
		},
		"tasks_home":        home,
		"tasks_home_source": source,
	}
	if global, err := config.GlobalConfigPath(); err == nil {
		data["global_config"] = global
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := ctx.Home()
			cfgPath := filepath.Join(home, "config.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home
// ---------------------------------------------------------------------------

func newSetHome() *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Persist tasks home location (used when TASKS_HOME is unset)",
		Long: "Persist tasks home location and make sure it holds a task store.\n" +
			"An empty store is created when none exists; an existing one is kept as is.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedTasksHome(args[0])
			if err != nil {
				return err
			}
			svc, err := shared.ServiceAt(cmd, resolved)
			if err != nil {
				return err
			}
			created, err := svc.Init(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted tasks home: %s\n", resolved)
			if created {
				fmt.Fprintf(out, "Task store initialized at %s\n", svc.StorePath())
			} else {
				res, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Using existing task store at %s (%d tasks)\n", svc.StorePath(), res.Summary.Total)
			}
			fmt.Fprintln(out, "Override anytime with TASKS_HOME or --tasks-home.")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-home
// ---------------------------------------------------------------------------

func newClearHome() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Remove persisted tasks home location from global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedTasksHome()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted tasks home setting.")
			} else {
				fmt.Fprintln(out, "No persisted tasks home setting was found.")
			}
			return nil
		},
	}
}
