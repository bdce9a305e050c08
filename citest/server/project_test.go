package server_test

import (
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bluewriter/bluewriter/pkg/types"
)

var _ = Describe("Projects", func() {
	var project *types.Project

	BeforeEach(func() {
		var err error
		project, err = client.CreateProject(ctx, "Saga", "an epic")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		client.DeleteProject(ctx, project.ID)
	})

	It("lists the created project", func() {
		resp, err := client.Get(ctx, "/projects")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var projects []types.Project
		Expect(resp.JSON(&projects)).To(Succeed())
		Expect(projects).To(ContainElement(HaveField("ID", project.ID)))
	})

	It("updates only the given fields", func() {
		resp, err := client.Put(ctx, fmt.Sprintf("/projects/%d", project.ID), map[string]string{"name": "Saga II"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var updated types.Project
		Expect(resp.JSON(&updated)).To(Succeed())
		Expect(updated.Name).To(Equal("Saga II"))
		Expect(updated.Description).To(Equal("an epic"))
	})

	It("rejects an empty name", func() {
		resp, err := client.Post(ctx, "/projects", map[string]string{"name": "   "})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(resp.ErrorCode()).To(Equal("INVALID_REQUEST"))
	})

	It("cascades deletes to stories and chapters", func() {
		story, err := client.CreateStory(ctx, project.ID, "One")
		Expect(err).NotTo(HaveOccurred())
		chapter, err := client.CreateChapter(ctx, story.ID, "Opening")
		Expect(err).NotTo(HaveOccurred())

		Expect(client.DeleteProject(ctx, project.ID)).To(Succeed())

		resp, err := client.Get(ctx, fmt.Sprintf("/stories/%d", story.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

		resp, err = client.Get(ctx, fmt.Sprintf("/chapters/%d", chapter.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
