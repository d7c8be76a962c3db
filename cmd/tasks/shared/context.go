// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/tasks/internal/config"
	"github.com/go-ports/tasks/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// TasksHome overrides the tasks home directory.
	// When empty, resolution falls through to TASKS_HOME env var → persisted config → ~/.tasks.
	TasksHome string
}

// Home returns the effective tasks home.
func (c *Context) Home() string {
	return config.GetTasksHome(c.TasksHome)
}

// Service opens the task service for the effective home. Warnings are
// logged to the command's stderr so they never mix with command output.
func (c *Context) Service(cmd *cobra.Command) (*service.Service, error) {
	return ServiceAt(cmd, c.Home())
}

// ServiceAt opens the task service for an explicit home.
func ServiceAt(cmd *cobra.Command, home string) (*service.Service, error) {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	return service.New(home, service.WithLogger(logger))
}

// ExactID validates that the command receives exactly one integer argument.
// Range checks are left to the service.
func ExactID(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("accepts 1 task id, received %d", len(args))
	}
	_, err := ParseID(args[0])
	return err
}

// ParseID parses a task id argument.
func ParseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: must be an integer", arg)
	}
	return id, nil
}
