package extract_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/extract"
	"buildpad.app/concierge/internal/model"
)

var _ = Describe("Parse", func() {
	It("parses a well-formed breakdown", func() {
		reply := `Here is the breakdown:

## Project setup (4 hours)
Repository, CI and deployment scaffolding.

## Login flow (6 hours)
Email and password auth with session cookies.

Total estimated: 10 hours`

		result := extract.Parse(reply)
		Expect(result).NotTo(BeNil())
		Expect(result.Tasks).To(HaveLen(2))

		Expect(result.Tasks[0].ID).To(Equal(1))
		Expect(result.Tasks[0].Title).To(Equal("Project setup"))
		Expect(result.Tasks[0].Hours).To(Equal(4))
		Expect(result.Tasks[0].Description).To(Equal("Repository, CI and deployment scaffolding."))

		Expect(result.Tasks[1].ID).To(Equal(2))
		Expect(result.Tasks[1].Title).To(Equal("Login flow"))
		Expect(result.Tasks[1].Hours).To(Equal(6))
		Expect(result.Tasks[1].Description).To(Equal("Email and password auth with session cookies."))

		Expect(result.TotalHours).To(Equal(10))
		Expect(result.Scope).To(Equal("Custom application as discussed"))
		Expect(result.Estimate.Standard).To(Equal("$1000 (2 days)"))
		Expect(result.Estimate.FastTrack).To(Equal("$1500 (1 days priority)"))
	})

	It("returns nil when no heading matches", func() {
		Expect(extract.Parse("We should talk about your project some more.")).To(BeNil())
		Expect(extract.Parse("")).To(BeNil())
	})

	It("accepts the singular hour form", func() {
		result := extract.Parse("## Tiny fix (1 hour)\nOne-line change.")
		Expect(result).NotTo(BeNil())
		Expect(result.Tasks[0].Hours).To(Equal(1))
	})

	It("skips a task whose hour count does not fit an int", func() {
		reply := `## Impossible (99999999999999999999999 hours)
Way out of range.

## Real work (4 hours)
The actual task.`

		result := extract.Parse(reply)
		Expect(result).NotTo(BeNil())
		Expect(result.Tasks).To(HaveLen(1))
		Expect(result.Tasks[0].ID).To(Equal(1))
		Expect(result.Tasks[0].Title).To(Equal("Real work"))
		Expect(result.TotalHours).To(Equal(4))
	})

	It("returns nil when every hour count is unparseable", func() {
		Expect(extract.Parse("## Only (99999999999999999999999 hours)\nBody.")).To(BeNil())
	})

	It("fills a placeholder when a heading has no body", func() {
		reply := "## First (2 hours)\n## Second (3 hours)\nReal body."
		result := extract.Parse(reply)
		Expect(result.Tasks[0].Description).To(Equal("Task details"))
		Expect(result.Tasks[1].Description).To(Equal("Real body."))
	})

	It("stops the last description at the total line", func() {
		reply := "## Only task (8 hours)\nThe work.\nTotal estimated: 8 hours"
		result := extract.Parse(reply)
		Expect(result.Tasks[0].Description).To(Equal("The work."))
		Expect(result.TotalHours).To(Equal(8))
	})
})

var _ = Describe("EstimateFor", func() {
	DescribeTable("pricing",
		func(totalHours int, standard, fastTrack string) {
			Expect(extract.EstimateFor(totalHours)).To(Equal(model.Estimate{
				Standard:  standard,
				FastTrack: fastTrack,
			}))
		},
		Entry("exact standard days", 16, "$1600 (2 days)", "$2400 (1 days priority)"),
		Entry("partial days round up", 10, "$1000 (2 days)", "$1500 (1 days priority)"),
		Entry("large project", 120, "$12000 (15 days)", "$18000 (8 days priority)"),
	)
})
