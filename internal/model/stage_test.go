package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/model"
)

var _ = Describe("Stage", func() {
	It("orders the six stages", func() {
		Expect(model.StageInitial.Index()).To(Equal(0))
		Expect(model.StagePayment.Index()).To(Equal(5))
		Expect(model.StageScope.Index()).To(BeNumerically("<", model.StageTasks.Index()))
	})

	It("steps forward one stage at a time", func() {
		Expect(model.StageInitial.Next()).To(Equal(model.StageRequirements))
		Expect(model.StageEstimate.Next()).To(Equal(model.StagePayment))
	})

	It("treats payment as terminal", func() {
		Expect(model.StagePayment.Terminal()).To(BeTrue())
		Expect(model.StagePayment.Next()).To(Equal(model.StagePayment))
		Expect(model.StageEstimate.Terminal()).To(BeFalse())
	})

	It("rejects unknown values", func() {
		Expect(model.Stage("bogus").Valid()).To(BeFalse())
		Expect(model.Stage("bogus").Index()).To(Equal(-1))
	})

	DescribeTable("ParseStage",
		func(input string, expected model.Stage) {
			Expect(model.ParseStage(input)).To(Equal(expected))
		},
		Entry("known value", "tasks", model.StageTasks),
		Entry("unknown value falls back to initial", "bogus", model.StageInitial),
		Entry("empty value falls back to initial", "", model.StageInitial),
	)
})
