package server_test

import (
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bluewriter/bluewriter/pkg/types"
)

var _ = Describe("Stories and chapters", func() {
	var (
		project *types.Project
		story   *types.Story
	)

	BeforeEach(func() {
		var err error
		project, err = client.CreateProject(ctx, "Saga", "")
		Expect(err).NotTo(HaveOccurred())
		story, err = client.CreateStory(ctx, project.ID, "One")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		client.DeleteProject(ctx, project.ID)
	})

	It("appends new stories and reorders them", func() {
		second, err := client.CreateStory(ctx, project.ID, "Two")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.SortOrder).To(BeNumerically(">", story.SortOrder))

		resp, err := client.Put(ctx, fmt.Sprintf("/projects/%d/stories/order", project.ID),
			map[string][]int64{"story_ids": {second.ID, story.ID}})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		stories, err := client.ListStories(ctx, project.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stories).To(HaveLen(2))
		Expect(stories[0].ID).To(Equal(second.ID))
	})

	It("locks a final published story", func() {
		resp, err := client.Post(ctx, fmt.Sprintf("/stories/%d/publish", story.ID), map[string]bool{"final": true})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		published, err := client.GetStory(ctx, story.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(published.Status).To(Equal(types.StatusFinalPublished))
		Expect(published.PublishedAt).NotTo(BeNil())

		resp, err = client.Post(ctx, fmt.Sprintf("/stories/%d/chapters", story.ID), types.NewChapter{Title: "Late"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
		Expect(resp.ErrorCode()).To(Equal("CONFLICT"))

		resp, err = client.Post(ctx, fmt.Sprintf("/stories/%d/unpublish", story.ID), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		_, err = client.CreateChapter(ctx, story.ID, "Late")
		Expect(err).NotTo(HaveOccurred())
	})

	It("edits chapter content as text, HTML and Markdown", func() {
		chapter, err := client.CreateChapter(ctx, story.ID, "Opening")
		Expect(err).NotTo(HaveOccurred())
		Expect(chapter.Color).To(Equal("#FFFF88"))

		resp, err := client.Put(ctx, fmt.Sprintf("/chapters/%d/content", chapter.ID),
			map[string]string{"content": "Dawn.\n\nDusk.", "format": "text"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		updated, err := client.GetChapter(ctx, chapter.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Content).To(Equal("<p>Dawn.</p>\n<p>Dusk.</p>"))

		var msg struct {
			Message string `json:"message"`
		}
		resp, err = client.Get(ctx, fmt.Sprintf("/chapters/%d/markdown", chapter.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.JSON(&msg)).To(Succeed())
		Expect(msg.Message).To(Equal("Dawn.\n\nDusk."))
	})

	It("rejects invalid colours", func() {
		chapter, err := client.CreateChapter(ctx, story.ID, "Opening")
		Expect(err).NotTo(HaveOccurred())

		resp, err := client.Put(ctx, fmt.Sprintf("/chapters/%d/color", chapter.ID), map[string]string{"color": "blue"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
