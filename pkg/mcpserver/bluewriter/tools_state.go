package bluewriter

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func (t *tools) addCanvasTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_canvas",
		mcp.WithDescription("Gets a story's canvas pan and zoom"),
		idParam("story_id", "Story id"),
	), handler(func(_ context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Canvas.View(sid), nil
	}))

	s.AddTool(mcp.NewTool("set_canvas_zoom",
		mcp.WithDescription("Sets a story's canvas zoom. Values outside the allowed range are clamped"),
		idParam("story_id", "Story id"),
		mcp.WithNumber("zoom", mcp.Required(), mcp.Description("Zoom factor")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		zoom, err := args.requireNumber("zoom")
		if err != nil {
			return nil, err
		}
		return t.svc.Canvas.SetZoom(ctx, sid, zoom)
	}))

	s.AddTool(mcp.NewTool("set_canvas_pan",
		mcp.WithDescription("Sets a story's canvas pan offset"),
		idParam("story_id", "Story id"),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Pan x")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Pan y")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		x, err := args.requireNumber("x")
		if err != nil {
			return nil, err
		}
		y, err := args.requireNumber("y")
		if err != nil {
			return nil, err
		}
		return t.svc.Canvas.SetPan(ctx, sid, x, y)
	}))

	s.AddTool(mcp.NewTool("focus_chapter",
		mcp.WithDescription("Pans a story's canvas to center a chapter card"),
		idParam("story_id", "Story id"),
		idParam("chapter_id", "Chapter id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		cid, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		c, err := t.svc.Chapters.Get(ctx, cid)
		if err != nil {
			return nil, err
		}
		return t.svc.Canvas.FocusChapter(ctx, sid, c.BoardX, c.BoardY), nil
	}))

	s.AddTool(mcp.NewTool("fit_canvas",
		mcp.WithDescription("Zooms and pans a story's canvas to show every chapter card"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		chapters, err := t.svc.Chapters.List(ctx, sid)
		if err != nil {
			return nil, err
		}
		positions := make([]types.Position, len(chapters))
		for i, c := range chapters {
			positions[i] = types.Position{X: c.BoardX, Y: c.BoardY}
		}
		return t.svc.Canvas.FitAll(ctx, sid, positions), nil
	}))

	s.AddTool(mcp.NewTool("reset_canvas",
		mcp.WithDescription("Resets a story's canvas to the default pan and zoom"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Canvas.Reset(ctx, sid), nil
	}))
}

func (t *tools) addEditorTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_editors",
		mcp.WithDescription("Lists open editors and whether they have unsaved changes"),
	), handler(func(_ context.Context, _ arguments) (any, error) {
		return t.svc.Editors.List(), nil
	}))

	s.AddTool(mcp.NewTool("save_all",
		mcp.WithDescription("Asks every modified editor to save and marks them clean"),
	), handler(func(ctx context.Context, _ arguments) (any, error) {
		return t.svc.Editors.SaveAll(ctx), nil
	}))
}
