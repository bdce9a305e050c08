package bluewriter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func (t *tools) addEncyclopediaTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("Lists a project's encyclopedia entries, optionally in one category"),
		idParam("project_id", "Project id"),
		mcp.WithString("category", mcp.Description("Only entries in this category")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		category, _, err := args.str("category")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Encyclopedia.List(ctx, pid, category))
	}))

	s.AddTool(mcp.NewTool("get_entry",
		mcp.WithDescription("Gets an encyclopedia entry by id"),
		idParam("entry_id", "Entry id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("entry_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Encyclopedia.Get(ctx, id)
	}))

	s.AddTool(mcp.NewTool("create_entry",
		mcp.WithDescription("Creates an encyclopedia entry"),
		idParam("project_id", "Project id"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entry name")),
		mcp.WithString("category", mcp.Description("Category (default General)")),
		mcp.WithString("content", mcp.Description("Entry text")),
		mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		var in types.NewEntry
		if in.Name, _, err = args.str("name"); err != nil {
			return nil, err
		}
		if in.Category, _, err = args.str("category"); err != nil {
			return nil, err
		}
		if in.Content, _, err = args.str("content"); err != nil {
			return nil, err
		}
		tags, _, err := args.strs("tags")
		if err != nil {
			return nil, err
		}
		in.Tags = strings.Join(tags, ", ")
		return t.svc.Encyclopedia.Create(ctx, pid, in)
	}))

	s.AddTool(mcp.NewTool("update_entry",
		mcp.WithDescription("Updates an encyclopedia entry. Omitted fields are left unchanged"),
		idParam("entry_id", "Entry id"),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("category", mcp.Description("New category")),
		mcp.WithString("content", mcp.Description("New text")),
		mcp.WithArray("tags", mcp.Description("Replacement tags"), mcp.Items(map[string]any{"type": "string"})),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("entry_id")
		if err != nil {
			return nil, err
		}
		var upd types.EntryUpdate
		if upd.Name, err = args.optStr("name"); err != nil {
			return nil, err
		}
		if upd.Category, err = args.optStr("category"); err != nil {
			return nil, err
		}
		if upd.Content, err = args.optStr("content"); err != nil {
			return nil, err
		}
		tags, ok, err := args.strs("tags")
		if err != nil {
			return nil, err
		}
		if ok {
			joined := strings.Join(tags, ", ")
			upd.Tags = &joined
		}
		return t.svc.Encyclopedia.Update(ctx, id, upd)
	}))

	s.AddTool(mcp.NewTool("delete_entry",
		mcp.WithDescription("Deletes an encyclopedia entry"),
		idParam("entry_id", "Entry id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("entry_id")
		if err != nil {
			return nil, err
		}
		if err := t.svc.Encyclopedia.Delete(ctx, id); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Entry %d deleted", id), nil
	}))

	s.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Searches a project's entries by name, content and tags"),
		idParam("project_id", "Project id"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		query, _, err := args.str("query")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Encyclopedia.Search(ctx, pid, query))
	}))

	s.AddTool(mcp.NewTool("find_similar_entries",
		mcp.WithDescription("Finds entries whose names resemble a name, best match first. Use it to avoid creating duplicates"),
		idParam("project_id", "Project id"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name to compare against")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of matches (default 5)")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		name, _, err := args.str("name")
		if err != nil {
			return nil, err
		}
		limit, err := args.integer("limit", 5)
		if err != nil {
			return nil, err
		}
		return t.svc.Encyclopedia.Similar(ctx, pid, name, limit)
	}))

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Lists the default categories plus those used in a project"),
		idParam("project_id", "Project id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Encyclopedia.Categories(ctx, pid))
	}))
}
