// MCP server end-to-end tests.
//
// Each test wires the real MCP server in-process via the mcp-go
// InProcessTransport, backed by a fresh service.Service rooted at a
// temporary directory. The full stack (service → store → mcp handler →
// mcp-go server → in-process client) runs within a single test process.
package e2e_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/tasks/internal/checkers"
	internalmcp "github.com/go-ports/tasks/internal/mcp"
	"github.com/go-ports/tasks/internal/service"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient creates an in-process MCP client backed by a fresh service
// rooted at c.TB.TempDir(). The client is started and initialized before it
// is returned; cleanup is registered on c automatically.
func newMCPClient(c *qt.C) *mcpclient.Client {
	c.TB.Helper()

	svc, err := service.New(c.TB.TempDir())
	c.Assert(err, qt.IsNil)

	cl, err := mcpclient.NewInProcessClient(internalmcp.NewServer(svc))
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "e2e-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl
}

// callTool invokes the named MCP tool and returns the text of the first
// content item along with the tool's error flag.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) (string, bool) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)

	return tc.Text, result.IsError
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestMCPListTools_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)
	c.Assert(result.Tools, qt.HasLen, 5)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	for _, want := range []string{"task_add", "task_list", "task_done", "task_delete", "task_clear"} {
		c.Assert(names, qt.Contains, want)
	}
}

// ---------------------------------------------------------------------------
// Tool round trip
// ---------------------------------------------------------------------------

func TestMCPTaskTools_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c)

	text, isErr := callTool(c, cl, "task_add", map[string]any{"text": " Buy milk "})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.status"), "created")
	c.Assert(text, checkers.JSONPathEquals("$.task.id"), 1)
	c.Assert(text, checkers.JSONPathEquals("$.task.text"), "Buy milk")

	_, isErr = callTool(c, cl, "task_add", map[string]any{"text": "Walk dog"})
	c.Assert(isErr, qt.IsFalse)

	text, isErr = callTool(c, cl, "task_done", map[string]any{"id": 1})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.status"), "completed")
	c.Assert(text, checkers.JSONPathEquals("$.task.done"), true)

	text, isErr = callTool(c, cl, "task_done", map[string]any{"id": 1})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.status"), "already_done")

	text, isErr = callTool(c, cl, "task_list", map[string]any{})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.summary.total"), 2)
	c.Assert(text, checkers.JSONPathEquals("$.summary.completed"), 1)
	c.Assert(text, checkers.JSONPathEquals("$.summary.pending"), 1)
	c.Assert(text, checkers.JSONPathEquals("$.tasks[1].text"), "Walk dog")

	text, isErr = callTool(c, cl, "task_delete", map[string]any{"id": 1})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.status"), "deleted")

	text, _ = callTool(c, cl, "task_list", map[string]any{})
	c.Assert(text, checkers.JSONPathEquals("$.tasks[0].id"), 2)

	text, isErr = callTool(c, cl, "task_clear", map[string]any{})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.status"), "cleared")

	text, _ = callTool(c, cl, "task_list", map[string]any{})
	c.Assert(text, checkers.JSONPathEquals("$.summary.total"), 0)
}

func TestMCPTaskTools_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c)

	cases := []struct {
		name    string
		tool    string
		args    map[string]any
		wantMsg string
	}{
		{"blank text", "task_add", map[string]any{"text": "  "}, "invalid input: task text is empty"},
		{"unknown id", "task_done", map[string]any{"id": 7}, "task not found: 7"},
		{"zero id", "task_delete", map[string]any{"id": 0}, "invalid input: id must be a positive integer, got 0"},
		{"fractional id", "task_delete", map[string]any{"id": 1.5}, "id must be an integer, got 1.5"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			text, isErr := callTool(c, cl, tc.tool, tc.args)
			c.Assert(isErr, qt.IsTrue)
			c.Assert(text, qt.Equals, tc.wantMsg)
		})
	}
}
