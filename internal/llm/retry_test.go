package llm_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/llm"
)

var _ = Describe("RetryPolicy", func() {
	var policy llm.RetryPolicy

	BeforeEach(func() {
		policy = llm.RetryPolicy{
			MaxAttempts: 3,
			Backoff:     llm.LinearBackoff(time.Millisecond),
			Retryable:   llm.IsRetryable,
		}
	})

	It("stops after the first success", func() {
		calls := 0
		err := policy.Do(context.Background(), func() error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("exhausts the budget on retryable failures", func() {
		calls := 0
		failure := &llm.Error{Kind: llm.KindRateLimit, Message: "throttled"}
		err := policy.Do(context.Background(), func() error {
			calls++
			return failure
		})
		Expect(err).To(MatchError(failure))
		Expect(calls).To(Equal(3))
	})

	It("gives up immediately on non-retryable failures", func() {
		calls := 0
		err := policy.Do(context.Background(), func() error {
			calls++
			return &llm.Error{Kind: llm.KindAuthentication, Message: "bad key"}
		})
		Expect(llm.KindOf(err)).To(Equal(llm.KindAuthentication))
		Expect(calls).To(Equal(1))
	})

	It("recovers when a later attempt succeeds", func() {
		calls := 0
		err := policy.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &llm.Error{Kind: llm.KindServer, Message: "flaky"}
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("stops retrying once the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := policy.Do(ctx, func() error {
			calls++
			cancel()
			return &llm.Error{Kind: llm.KindTimeout, Message: "slow"}
		})
		Expect(llm.KindOf(err)).To(Equal(llm.KindTimeout))
		Expect(calls).To(Equal(1))
	})

	It("backs off linearly", func() {
		backoff := llm.LinearBackoff(2 * time.Second)
		Expect(backoff(1)).To(Equal(2 * time.Second))
		Expect(backoff(2)).To(Equal(4 * time.Second))
	})

	It("ships a three-attempt gateway default", func() {
		def := llm.GatewayRetryPolicy()
		Expect(def.MaxAttempts).To(Equal(3))
		Expect(def.Retryable(errors.New("boom"))).To(BeFalse())
		Expect(def.Retryable(&llm.Error{Kind: llm.KindRateLimit})).To(BeTrue())
	})
})
