package e2e_test

import (
	"encoding/json"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bluewriter/bluewriter/citest/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

var _ = Describe("MCP tools alongside the HTTP API", func() {
	var (
		session *sdkmcp.ClientSession
		sse     *testutil.SSEClient
	)

	BeforeEach(func() {
		mcpClient := sdkmcp.NewClient(&sdkmcp.Implementation{
			Name:    "e2e-client",
			Version: "1.0.0",
		}, nil)

		var err error
		session, err = mcpClient.Connect(ctx, &sdkmcp.SSEClientTransport{Endpoint: mcpServer.Endpoint}, nil)
		Expect(err).NotTo(HaveOccurred())

		sse = testServer.SSEClient()
		Expect(sse.Connect(ctx, "/event")).To(Succeed())
	})

	AfterEach(func() {
		sse.Close()
		session.Close()
	})

	callTool := func(name string, args map[string]any) (string, bool) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Content).NotTo(BeEmpty())
		text, ok := result.Content[0].(*sdkmcp.TextContent)
		Expect(ok).To(BeTrue(), "content should be TextContent")
		return text.Text, result.IsError
	}

	decodeTool := func(name string, args map[string]any, out any) {
		text, isError := callTool(name, args)
		Expect(isError).To(BeFalse(), text)
		Expect(json.Unmarshal([]byte(text), out)).To(Succeed())
	}

	It("lists the tools", func() {
		result, err := session.ListTools(ctx, nil)
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, tool := range result.Tools {
			names = append(names, tool.Name)
		}
		Expect(names).To(ContainElements("create_project", "create_chapter", "search_entries", "save_all"))
	})

	It("shares state and events with the HTTP API", func() {
		var project types.Project
		decodeTool("create_project", map[string]any{"name": "Crossover"}, &project)
		defer client.DeleteProject(ctx, project.ID)

		env, err := sse.WaitForKind("project.created", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		var payload struct {
			ID int64 `json:"id"`
		}
		Expect(env.DecodePayload(&payload)).To(Succeed())
		Expect(payload.ID).To(Equal(project.ID))

		story, err := client.CreateStory(ctx, project.ID, "Shared")
		Expect(err).NotTo(HaveOccurred())

		var stories []types.Story
		decodeTool("list_stories", map[string]any{"project_id": project.ID}, &stories)
		Expect(stories).To(HaveLen(1))
		Expect(stories[0].ID).To(Equal(story.ID))

		var chapter types.Chapter
		decodeTool("create_chapter", map[string]any{"story_id": story.ID, "title": "Opening"}, &chapter)
		_, err = sse.WaitForKind("chapter.created", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		got, err := client.GetChapter(ctx, chapter.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Title).To(Equal("Opening"))
	})

	It("reports lock violations as tool errors", func() {
		project, err := client.CreateProject(ctx, "Locked", "")
		Expect(err).NotTo(HaveOccurred())
		defer client.DeleteProject(ctx, project.ID)
		story, err := client.CreateStory(ctx, project.ID, "Final")
		Expect(err).NotTo(HaveOccurred())

		var published types.Story
		decodeTool("publish_story", map[string]any{"story_id": story.ID, "final": true}, &published)
		Expect(published.Status).To(Equal(types.StatusFinalPublished))

		text, isError := callTool("update_story", map[string]any{"story_id": story.ID, "title": "Changed"})
		Expect(isError).To(BeTrue())
		Expect(text).To(ContainSubstring(fmt.Sprint(story.ID)))
	})

	It("searches the encyclopedia", func() {
		project, err := client.CreateProject(ctx, "Lore", "")
		Expect(err).NotTo(HaveOccurred())
		defer client.DeleteProject(ctx, project.ID)

		_, err = client.CreateEntry(ctx, project.ID, types.NewEntry{Name: "Aria", Category: "Character", Tags: "mage, hero"})
		Expect(err).NotTo(HaveOccurred())

		var found []types.Entry
		decodeTool("search_entries", map[string]any{"project_id": project.ID, "query": "mage"}, &found)
		Expect(found).To(HaveLen(1))
		Expect(found[0].Name).To(Equal("Aria"))
	})
})
