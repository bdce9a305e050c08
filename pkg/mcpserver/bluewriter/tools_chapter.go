package bluewriter

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func (t *tools) addChapterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_chapters",
		mcp.WithDescription("Lists the chapters of a story in order"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Chapters.List(ctx, id))
	}))

	s.AddTool(mcp.NewTool("get_chapter",
		mcp.WithDescription("Gets a chapter, including its HTML content"),
		idParam("chapter_id", "Chapter id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.Get(ctx, id)
	}))

	s.AddTool(mcp.NewTool("create_chapter",
		mcp.WithDescription("Creates a chapter card on a story's canvas"),
		idParam("story_id", "Story id"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Chapter title")),
		mcp.WithNumber("board_x", mcp.Description("Canvas x position (default 100)")),
		mcp.WithNumber("board_y", mcp.Description("Canvas y position (default 100)")),
		mcp.WithString("color", mcp.Description("Card color as #RRGGBB (default #FFFF88)")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		sid, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		var in types.NewChapter
		if in.Title, _, err = args.str("title"); err != nil {
			return nil, err
		}
		if in.Color, _, err = args.str("color"); err != nil {
			return nil, err
		}
		if x, ok, err := args.number("board_x"); err != nil {
			return nil, err
		} else if ok {
			in.X = &x
		}
		if y, ok, err := args.number("board_y"); err != nil {
			return nil, err
		} else if ok {
			in.Y = &y
		}
		return t.svc.Chapters.Create(ctx, sid, in)
	}))

	s.AddTool(mcp.NewTool("update_chapter",
		mcp.WithDescription("Updates a chapter's title, summary or HTML content. Omitted fields are left unchanged"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("content", mcp.Description("New HTML content")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		var upd types.ChapterUpdate
		if upd.Title, err = args.optStr("title"); err != nil {
			return nil, err
		}
		if upd.Summary, err = args.optStr("summary"); err != nil {
			return nil, err
		}
		if upd.Content, err = args.optStr("content"); err != nil {
			return nil, err
		}
		return t.svc.Chapters.Update(ctx, id, upd)
	}))

	s.AddTool(mcp.NewTool("delete_chapter",
		mcp.WithDescription("Deletes a chapter"),
		idParam("chapter_id", "Chapter id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		if err := t.svc.Chapters.Delete(ctx, id); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Chapter %d deleted", id), nil
	}))

	s.AddTool(mcp.NewTool("move_chapter",
		mcp.WithDescription("Moves a chapter card on the canvas"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithNumber("board_x", mcp.Required(), mcp.Description("Canvas x position")),
		mcp.WithNumber("board_y", mcp.Required(), mcp.Description("Canvas y position")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		x, err := args.requireNumber("board_x")
		if err != nil {
			return nil, err
		}
		y, err := args.requireNumber("board_y")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.Move(ctx, id, x, y)
	}))

	s.AddTool(mcp.NewTool("set_chapter_color",
		mcp.WithDescription("Sets a chapter card's color"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithString("color", mcp.Required(), mcp.Description("Color as #RRGGBB")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		color, _, err := args.str("color")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.SetColor(ctx, id, color)
	}))

	s.AddTool(mcp.NewTool("get_chapter_text",
		mcp.WithDescription("Gets a chapter's content as plain text"),
		idParam("chapter_id", "Chapter id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.Text(ctx, id)
	}))

	s.AddTool(mcp.NewTool("get_chapter_markdown",
		mcp.WithDescription("Gets a chapter's content as Markdown"),
		idParam("chapter_id", "Chapter id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.Markdown(ctx, id)
	}))

	s.AddTool(mcp.NewTool("set_chapter_text",
		mcp.WithDescription("Replaces a chapter's content with plain text. Blank lines separate paragraphs"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text content")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		text, _, err := args.str("text")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.SetText(ctx, id, text)
	}))

	s.AddTool(mcp.NewTool("preview_chapter_text",
		mcp.WithDescription("Shows a line diff between a chapter's current plain text and proposed text without changing it"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Proposed plain text")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		text, _, err := args.str("text")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.PreviewText(ctx, id, text)
	}))

	s.AddTool(mcp.NewTool("insert_chapter_text",
		mcp.WithDescription("Inserts text into a chapter's HTML content at a character position"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Character position in the HTML content")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to insert; it is escaped")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		pos, err := args.integer("position", 0)
		if err != nil {
			return nil, err
		}
		text, _, err := args.str("text")
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.InsertText(ctx, id, pos, text)
	}))

	s.AddTool(mcp.NewTool("insert_scene_break",
		mcp.WithDescription("Inserts a scene break into a chapter, at the end unless a position is given"),
		idParam("chapter_id", "Chapter id"),
		mcp.WithNumber("position", mcp.Description("Character position in the HTML content")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("chapter_id")
		if err != nil {
			return nil, err
		}
		pos, err := args.integer("position", -1)
		if err != nil {
			return nil, err
		}
		return t.svc.Chapters.InsertSceneBreak(ctx, id, pos)
	}))
}
