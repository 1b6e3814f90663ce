package transcript_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/model"
	"buildpad.app/concierge/internal/transcript"
)

var _ = Describe("Transcript", func() {
	var t *transcript.Transcript

	BeforeEach(func() {
		t = transcript.New()
	})

	Describe("Append and Last", func() {
		It("keeps insertion order", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "first"))
			t.Append(transcript.NewMessage(model.RoleAssistant, "second"))

			Expect(t.Len()).To(Equal(2))
			last, ok := t.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Content).To(Equal("second"))
		})

		It("reports an empty log", func() {
			_, ok := t.Last()
			Expect(ok).To(BeFalse())
		})

		It("assigns unique ids and timestamps", func() {
			a := transcript.NewMessage(model.RoleUser, "a")
			b := transcript.NewMessage(model.RoleUser, "b")
			Expect(a.ID).NotTo(Equal(b.ID))
			Expect(a.CreatedAt).NotTo(BeZero())
		})
	})

	Describe("ProjectForAPI", func() {
		It("prepends a fresh system message and keeps order", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "I want an app"))
			t.Append(transcript.NewMessage(model.RoleAssistant, "Tell me more"))

			out := t.ProjectForAPI("be helpful")
			Expect(out).To(HaveLen(3))
			Expect(out[0].Role).To(Equal(model.RoleSystem))
			Expect(out[0].Content).To(Equal("be helpful"))
			Expect(out[1].Content).To(Equal("I want an app"))
			Expect(out[2].Content).To(Equal("Tell me more"))
		})

		It("excludes local messages", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "hello"))
			apology := transcript.NewMessage(model.RoleAssistant, "sorry, try again")
			apology.Local = true
			t.Append(apology)

			out := t.ProjectForAPI("sys")
			Expect(out).To(HaveLen(2))
			Expect(out[1].Content).To(Equal("hello"))
		})

		It("is derived, not stored: projecting twice does not grow the payload", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "hello"))

			first := t.ProjectForAPI("sys")
			second := t.ProjectForAPI("sys")
			Expect(second).To(Equal(first))
			Expect(t.Len()).To(Equal(1))
		})

		It("swaps the system prompt without touching the log", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "hello"))

			Expect(t.ProjectForAPI("stage one")[0].Content).To(Equal("stage one"))
			Expect(t.ProjectForAPI("stage two")[0].Content).To(Equal("stage two"))
		})
	})

	Describe("Display", func() {
		It("hides system messages and keeps local ones", func() {
			t.Append(transcript.NewMessage(model.RoleSystem, "internal"))
			t.Append(transcript.NewMessage(model.RoleUser, "hello"))
			apology := transcript.NewMessage(model.RoleAssistant, "sorry")
			apology.Local = true
			t.Append(apology)

			shown := t.Display()
			Expect(shown).To(HaveLen(2))
			Expect(shown[0].Content).To(Equal("hello"))
			Expect(shown[1].Content).To(Equal("sorry"))
		})
	})

	Describe("TruncateLastExchange", func() {
		It("removes the last user message and everything after it", func() {
			t.Append(transcript.NewMessage(model.RoleUser, "first"))
			t.Append(transcript.NewMessage(model.RoleAssistant, "reply"))
			t.Append(transcript.NewMessage(model.RoleUser, "second"))
			apology := transcript.NewMessage(model.RoleAssistant, "sorry")
			apology.Local = true
			t.Append(apology)

			removed, ok := t.TruncateLastExchange()
			Expect(ok).To(BeTrue())
			Expect(removed.Content).To(Equal("second"))
			Expect(t.Len()).To(Equal(2))

			last, _ := t.Last()
			Expect(last.Content).To(Equal("reply"))
		})

		It("reports false when no user message exists", func() {
			t.Append(transcript.NewMessage(model.RoleAssistant, "welcome"))
			_, ok := t.TruncateLastExchange()
			Expect(ok).To(BeFalse())
			Expect(t.Len()).To(Equal(1))
		})
	})
})
