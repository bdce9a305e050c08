package server_test

import (
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bluewriter/bluewriter/citest/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

var _ = Describe("SSE Event Streaming", func() {
	var sse *testutil.SSEClient

	BeforeEach(func() {
		sse = testServer.SSEClient()
		Expect(sse.Connect(ctx, "/event")).To(Succeed())
	})

	AfterEach(func() {
		sse.Close()
	})

	It("sets the event stream headers", func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, testServer.BaseURL+"/event", nil)
		Expect(err).NotTo(HaveOccurred())
		httpClient := &http.Client{Timeout: 2 * time.Second}
		resp, err := httpClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
		Expect(resp.Header.Get("Cache-Control")).To(Equal("no-cache"))
	})

	It("delivers queued events from HTTP handlers through the dispatch loop", func() {
		project, err := client.CreateProject(ctx, "Streamed", "")
		Expect(err).NotTo(HaveOccurred())
		defer client.DeleteProject(ctx, project.ID)

		env, err := sse.WaitForKind("project.created", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.ID).To(HaveLen(26))

		var payload struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		Expect(env.DecodePayload(&payload)).To(Succeed())
		Expect(payload.ID).To(Equal(project.ID))
		Expect(payload.Name).To(Equal("Streamed"))
	})

	It("preserves publish order", func() {
		project, err := client.CreateProject(ctx, "Ordered", "")
		Expect(err).NotTo(HaveOccurred())
		defer client.DeleteProject(ctx, project.ID)
		story, err := client.CreateStory(ctx, project.ID, "One")
		Expect(err).NotTo(HaveOccurred())
		_, err = client.CreateChapter(ctx, story.ID, "Opening")
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() []string {
			return kindsOf(sse.GetAllEvents())
		}, 5*time.Second, 20*time.Millisecond).Should(ContainElements("project.created", "story.created", "chapter.created"))

		kinds := kindsOf(sse.GetAllEvents())
		Expect(indexOf(kinds, "project.created")).To(BeNumerically("<", indexOf(kinds, "story.created")))
		Expect(indexOf(kinds, "story.created")).To(BeNumerically("<", indexOf(kinds, "chapter.created")))
	})

	It("reports editor state changes", func() {
		project, err := client.CreateProject(ctx, "Editing", "")
		Expect(err).NotTo(HaveOccurred())
		defer client.DeleteProject(ctx, project.ID)
		story, err := client.CreateStory(ctx, project.ID, "One")
		Expect(err).NotTo(HaveOccurred())
		chapter, err := client.CreateChapter(ctx, story.ID, "Opening")
		Expect(err).NotTo(HaveOccurred())

		resp, err := client.Post(ctx, fmt.Sprintf("/chapters/%d/open", chapter.ID), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		_, err = sse.WaitForKind("chapter.opened", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		resp, err = client.Post(ctx, "/state/editors", map[string]any{
			"editor_type": types.EditorChapter,
			"item_id":     chapter.ID,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var editors []types.EditorState
		Expect(resp.JSON(&editors)).To(Succeed())
		Expect(editors).To(ContainElement(HaveField("ItemID", chapter.ID)))

		_, err = sse.WaitForKind("editor.state_changed", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		// Deleting the chapter closes its editor.
		resp, err = client.Delete(ctx, fmt.Sprintf("/chapters/%d", chapter.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		Eventually(func() []types.EditorState {
			var open []types.EditorState
			resp, err := client.Get(ctx, "/state/editors")
			if err != nil {
				return nil
			}
			resp.JSON(&open)
			return open
		}, 5*time.Second, 20*time.Millisecond).Should(BeEmpty())
	})
})

func kindsOf(events []testutil.SSEEvent) []string {
	var kinds []string
	for _, evt := range events {
		if evt.Type != "message" {
			continue
		}
		if env, err := evt.Envelope(); err == nil {
			kinds = append(kinds, env.Kind)
		}
	}
	return kinds
}

func indexOf(kinds []string, kind string) int {
	for i, k := range kinds {
		if k == kind {
			return i
		}
	}
	return -1
}
