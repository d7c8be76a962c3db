// Package mcp provides the stdio MCP server exposing task tools to coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/tasks/internal/buildinfo"
	"github.com/go-ports/tasks/internal/models"
	"github.com/go-ports/tasks/internal/service"
)

// Status values reported by the mutating tools.
const (
	statusCreated     = "created"
	statusCompleted   = "completed"
	statusAlreadyDone = "already_done"
	statusDeleted     = "deleted"
	statusCleared     = "cleared"
)

// NewServer creates and registers all task tools on a new MCP server.
// It is separate from Serve so tests can drive the server in-process.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("tasks", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for the tasks home, blocking until stdin closes.
func Serve(_ context.Context, tasksHome string) error {
	svc, err := service.New(tasksHome)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires the five task tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("task_add",
		mcp.WithDescription("Add a pending task. Leading and trailing whitespace is trimmed; empty text is rejected."),
		mcp.WithString("text",
			mcp.Description("Short description of the task."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("task_list",
		mcp.WithDescription("List all tasks in creation order with total, completed and pending counts."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc)
	})

	s.AddTool(mcp.NewTool("task_done",
		mcp.WithDescription("Mark a task as completed. Completing an already completed task changes nothing."),
		mcp.WithNumber("id",
			mcp.Description("Positive task id."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDone(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("task_delete",
		mcp.WithDescription("Delete a task by id. Other tasks keep their ids."),
		mcp.WithNumber("id",
			mcp.Description("Positive task id."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("task_clear",
		mcp.WithDescription("Delete ALL tasks."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleClear(ctx, svc)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := svc.Add(ctx, req.GetString("text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(taskResult(statusCreated, task))
}

func handleList(ctx context.Context, svc *service.Service) (*mcp.CallToolResult, error) {
	res, err := svc.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = make([]string, 0)
	}
	return jsonResult(map[string]any{
		"tasks":    res.Tasks,
		"summary":  res.Summary,
		"warnings": warnings,
	})
}

func handleDone(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.Done(ctx, id)
	if errors.Is(err, service.ErrAlreadyDone) {
		return jsonResult(taskResult(statusAlreadyDone, task))
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(taskResult(statusCompleted, task))
}

func handleDelete(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := taskID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.Delete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(taskResult(statusDeleted, task))
}

func handleClear(ctx context.Context, svc *service.Service) (*mcp.CallToolResult, error) {
	if err := svc.Clear(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"status": statusCleared})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// taskID reads the id argument. JSON numbers arrive as float64, so fractional
// values are rejected here rather than silently truncated.
func taskID(req mcp.CallToolRequest) (int, error) {
	f := req.GetFloat("id", 0)
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("id must be an integer, got %v", f)
	}
	return int(f), nil
}

func taskResult(status string, task *models.Task) map[string]any {
	return map[string]any{
		"status": status,
		"task":   task,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
