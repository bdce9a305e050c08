// Package bluewriter provides an MCP server exposing the BlueWriter services
// as tools. Tool calls run on the MCP transport's goroutines, so the events
// they publish are queued and delivered by the dispatch loop.
package bluewriter

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/internal/canvas"
	"github.com/bluewriter/bluewriter/internal/chapter"
	"github.com/bluewriter/bluewriter/internal/editor"
	"github.com/bluewriter/bluewriter/internal/encyclopedia"
	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/internal/project"
	"github.com/bluewriter/bluewriter/internal/story"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// Name is the MCP server name.
const Name = "bluewriter"

// Services are the operations exposed as tools.
type Services struct {
	Projects     *project.Service
	Stories      *story.Service
	Chapters     *chapter.Service
	Encyclopedia *encyclopedia.Service
	Canvas       *canvas.Service
	Editors      *editor.Service
}

type tools struct {
	svc Services
}

// NewServer creates an MCP server with one tool per service operation.
func NewServer(svc Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	t := &tools{svc: svc}
	t.addProjectTools(s)
	t.addStoryTools(s)
	t.addChapterTools(s)
	t.addEncyclopediaTools(s)
	t.addCanvasTools(s)
	t.addEditorTools(s)

	return s
}

// handler adapts an operation that returns a value to a tool handler. The
// value is returned as indented JSON text.
func handler(fn func(ctx context.Context, args arguments) (any, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := fn(ctx, arguments(request.GetArguments()))
		if err != nil {
			return serviceError(request.Params.Name, err)
		}
		return jsonResult(v)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	if msg, ok := v.(string); ok {
		return mcp.NewToolResultText(msg), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// serviceError reports classified failures as tool errors the model can read.
// Anything else is a protocol error.
func serviceError(tool string, err error) (*mcp.CallToolResult, error) {
	if types.IsNotFound(err) || types.IsLocked(err) || types.IsInvalid(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logging.Error().Err(err).Str("tool", tool).Msg("mcp tool failed")
	return nil, err
}

func idParam(name, desc string) mcp.ToolOption {
	return mcp.WithNumber(name, mcp.Required(), mcp.Description(desc))
}
