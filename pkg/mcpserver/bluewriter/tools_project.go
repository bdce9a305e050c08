package bluewriter

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func (t *tools) addProjectTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("Lists all writing projects"),
	), handler(func(ctx context.Context, _ arguments) (any, error) {
		return nonNil(t.svc.Projects.List(ctx))
	}))

	s.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Gets a project by id"),
		idParam("project_id", "Project id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Projects.Get(ctx, id)
	}))

	s.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Creates a project"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("description", mcp.Description("Optional description")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		name, _, err := args.str("name")
		if err != nil {
			return nil, err
		}
		desc, _, err := args.str("description")
		if err != nil {
			return nil, err
		}
		return t.svc.Projects.Create(ctx, name, desc)
	}))

	s.AddTool(mcp.NewTool("update_project",
		mcp.WithDescription("Updates a project's name or description. Omitted fields are left unchanged"),
		idParam("project_id", "Project id"),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		var upd types.ProjectUpdate
		if upd.Name, err = args.optStr("name"); err != nil {
			return nil, err
		}
		if upd.Description, err = args.optStr("description"); err != nil {
			return nil, err
		}
		return t.svc.Projects.Update(ctx, id, upd)
	}))

	s.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Deletes a project with all its stories, chapters and encyclopedia entries"),
		idParam("project_id", "Project id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		if err := t.svc.Projects.Delete(ctx, id); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Project %d deleted", id), nil
	}))

	s.AddTool(mcp.NewTool("open_project",
		mcp.WithDescription("Opens a project"),
		idParam("project_id", "Project id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Projects.Open(ctx, id)
	}))
}

func (t *tools) addStoryTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_stories",
		mcp.WithDescription("Lists the stories of a project in reading order"),
		idParam("project_id", "Project id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Stories.List(ctx, id))
	}))

	s.AddTool(mcp.NewTool("get_story",
		mcp.WithDescription("Gets a story by id"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Stories.Get(ctx, id)
	}))

	s.AddTool(mcp.NewTool("create_story",
		mcp.WithDescription("Creates a draft story at the end of a project"),
		idParam("project_id", "Project id"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Story title")),
		mcp.WithString("synopsis", mcp.Description("Optional synopsis")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		title, _, err := args.str("title")
		if err != nil {
			return nil, err
		}
		synopsis, _, err := args.str("synopsis")
		if err != nil {
			return nil, err
		}
		return t.svc.Stories.Create(ctx, pid, title, synopsis)
	}))

	s.AddTool(mcp.NewTool("update_story",
		mcp.WithDescription("Updates a story's title or synopsis. Fails if the story is final published"),
		idParam("story_id", "Story id"),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("synopsis", mcp.Description("New synopsis")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		var upd types.StoryUpdate
		if upd.Title, err = args.optStr("title"); err != nil {
			return nil, err
		}
		if upd.Synopsis, err = args.optStr("synopsis"); err != nil {
			return nil, err
		}
		return t.svc.Stories.Update(ctx, id, upd)
	}))

	s.AddTool(mcp.NewTool("delete_story",
		mcp.WithDescription("Deletes a story and its chapters. Fails if the story is final published"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		if err := t.svc.Stories.Delete(ctx, id); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Story %d deleted", id), nil
	}))

	s.AddTool(mcp.NewTool("select_story",
		mcp.WithDescription("Selects a story"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Stories.Select(ctx, id)
	}))

	s.AddTool(mcp.NewTool("publish_story",
		mcp.WithDescription("Publishes a story. A final publish locks the story and its chapters"),
		idParam("story_id", "Story id"),
		mcp.WithBoolean("final", mcp.Description("Final publish (locks) instead of rough publish")),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		final, err := args.boolean("final")
		if err != nil {
			return nil, err
		}
		return t.svc.Stories.Publish(ctx, id, final)
	}))

	s.AddTool(mcp.NewTool("unpublish_story",
		mcp.WithDescription("Returns a story to draft, unlocking it"),
		idParam("story_id", "Story id"),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		id, err := args.id("story_id")
		if err != nil {
			return nil, err
		}
		return t.svc.Stories.Unpublish(ctx, id)
	}))

	s.AddTool(mcp.NewTool("reorder_stories",
		mcp.WithDescription("Sets the reading order of a project's stories"),
		idParam("project_id", "Project id"),
		mcp.WithArray("story_ids",
			mcp.Required(),
			mcp.Description("Story ids in the new order"),
			mcp.Items(map[string]any{"type": "number"}),
		),
	), handler(func(ctx context.Context, args arguments) (any, error) {
		pid, err := args.id("project_id")
		if err != nil {
			return nil, err
		}
		ids, err := args.ids("story_ids")
		if err != nil {
			return nil, err
		}
		return nonNil(t.svc.Stories.Reorder(ctx, pid, ids))
	}))
}

// nonNil turns a nil slice result into an empty one so it encodes as [].
func nonNil[T any](items []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
