package llm_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/llm"
)

var _ = Describe("Error classification", func() {
	DescribeTable("Retryable",
		func(err *llm.Error, expected bool) {
			Expect(err.Retryable()).To(Equal(expected))
		},
		Entry("rate limit retries", &llm.Error{Kind: llm.KindRateLimit}, true),
		Entry("timeout retries", &llm.Error{Kind: llm.KindTimeout}, true),
		Entry("server error retries", &llm.Error{Kind: llm.KindServer}, true),
		Entry("configuration never retries", &llm.Error{Kind: llm.KindConfiguration}, false),
		Entry("authentication never retries", &llm.Error{Kind: llm.KindAuthentication}, false),
		Entry("client bug never retries", &llm.Error{Kind: llm.KindClient}, false),
		Entry("invalid response never retries", &llm.Error{Kind: llm.KindInvalidResponse}, false),
		Entry("network with transient hint retries",
			&llm.Error{Kind: llm.KindNetwork, Message: "connection reset by peer"}, true),
		Entry("network without transient hint does not retry",
			&llm.Error{Kind: llm.KindNetwork, Message: "no such host"}, false),
		Entry("provider error with overloaded hint retries",
			&llm.Error{Kind: llm.KindOpenAIAPI, Message: "Overloaded, try again"}, true),
	)

	Describe("KindOf", func() {
		It("extracts the kind through wrapping", func() {
			err := fmt.Errorf("submitting: %w", &llm.Error{Kind: llm.KindTimeout, Message: "slow"})
			Expect(llm.KindOf(err)).To(Equal(llm.KindTimeout))
		})

		It("reports unknown for foreign errors", func() {
			Expect(llm.KindOf(errors.New("boom"))).To(Equal(llm.KindUnknown))
			Expect(llm.IsRetryable(errors.New("boom"))).To(BeFalse())
		})
	})

	It("formats the kind, message and cause", func() {
		err := &llm.Error{Kind: llm.KindServer, Message: "upstream 503", Err: errors.New("bad gateway")}
		Expect(err.Error()).To(Equal("server: upstream 503: bad gateway"))
		Expect(errors.Unwrap(err)).To(MatchError("bad gateway"))
	})
})
