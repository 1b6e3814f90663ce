package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/http/handler"
	"buildpad.app/concierge/internal/llm"
	"buildpad.app/concierge/internal/model"
)

var _ = Describe("ConversationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockScopingService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockScopingService{}
		h := handler.NewConversationHandler(svc)
		router = gin.New()
		router.POST("/conversations", h.Start)
		router.GET("/conversations/:id", h.Get)
		router.POST("/conversations/:id/messages", h.Send)
		router.POST("/conversations/:id/retry", h.Retry)
		router.POST("/conversations/:id/email", h.SubmitEmail)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Start", func() {
		It("returns 201 with the initial state", func() {
			svc.startFn = func(_ context.Context, initialPrompt string) (conversation.State, error) {
				Expect(initialPrompt).To(Equal("booking app"))
				return conversation.State{
					ID:    42,
					Stage: model.StageInitial,
					Messages: []model.Message{
						{ID: 1, Role: model.RoleUser, Content: "booking app"},
						{ID: 2, Role: model.RoleAssistant, Content: "tell me more"},
					},
				}, nil
			}

			w := do(http.MethodPost, "/conversations", `{"initial_prompt": "booking app"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["stage"]).To(Equal("initial"))
			Expect(resp["messages"]).To(HaveLen(2))
		})
	})

	Describe("Get", func() {
		It("returns 404 for unknown conversations", func() {
			svc.getFn = func(_ context.Context, _ int64) (conversation.State, error) {
				return conversation.State{}, conversation.ErrNotFound
			}

			w := do(http.MethodGet, "/conversations/999", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a non-numeric id", func() {
			w := do(http.MethodGet, "/conversations/abc", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("includes the stored failure state", func() {
			svc.getFn = func(_ context.Context, _ int64) (conversation.State, error) {
				return conversation.State{
					ID:    42,
					Stage: model.StageInitial,
					LastError: &conversation.ConnectionError{
						Kind:      llm.KindTimeout,
						Message:   "too slow",
						Retryable: true,
					},
				}, nil
			}

			w := do(http.MethodGet, "/conversations/42", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			errField := resp["error"].(map[string]any)
			Expect(errField["kind"]).To(Equal("timeout"))
			Expect(errField["retryable"]).To(BeTrue())
		})
	})

	Describe("Send", func() {
		It("returns the turn with stage and result", func() {
			svc.sendFn = func(_ context.Context, conversationID int64, text string, _ []string) (*conversation.Turn, error) {
				Expect(conversationID).To(Equal(int64(42)))
				Expect(text).To(Equal("go ahead"))
				return &conversation.Turn{
					Reply: model.Message{ID: 3, Role: model.RoleAssistant, Content: "breakdown ready"},
					Stage: model.StageTasks,
					Result: &model.ProjectResult{
						Scope:      "Custom application as discussed",
						TotalHours: 10,
					},
				}, nil
			}

			w := do(http.MethodPost, "/conversations/42/messages", `{"message": "go ahead"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["stage"]).To(Equal("tasks"))
			Expect(resp["result"]).NotTo(BeNil())
		})

		It("returns 409 while a turn is in flight", func() {
			svc.sendFn = func(_ context.Context, _ int64, _ string, _ []string) (*conversation.Turn, error) {
				return nil, conversation.ErrBusy
			}

			w := do(http.MethodPost, "/conversations/42/messages", `{"message": "hi"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 400 for an empty turn", func() {
			svc.sendFn = func(_ context.Context, _ int64, _ string, _ []string) (*conversation.Turn, error) {
				return nil, conversation.ErrEmptyTurn
			}

			w := do(http.MethodPost, "/conversations/42/messages", `{"message": ""}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Retry", func() {
		It("returns the retried turn", func() {
			svc.retryFn = func(_ context.Context, conversationID int64) (*conversation.Turn, error) {
				return &conversation.Turn{
					Reply: model.Message{ID: 4, Role: model.RoleAssistant, Content: "back online"},
					Stage: model.StageInitial,
				}, nil
			}

			w := do(http.MethodPost, "/conversations/42/retry", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			reply := resp["reply"].(map[string]any)
			Expect(reply["content"]).To(Equal("back online"))
		})
	})

	Describe("SubmitEmail", func() {
		It("records the email", func() {
			var recorded string
			svc.submitEmailFn = func(_ context.Context, _ int64, email string) error {
				recorded = email
				return nil
			}

			w := do(http.MethodPost, "/conversations/42/email", `{"email": "ada@example.com"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(recorded).To(Equal("ada@example.com"))
		})

		It("rejects an invalid email", func() {
			w := do(http.MethodPost, "/conversations/42/email", `{"email": "nope"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 409 before the flow is finished", func() {
			svc.submitEmailFn = func(_ context.Context, _ int64, _ string) error {
				return conversation.ErrNotReady
			}

			w := do(http.MethodPost, "/conversations/42/email", `{"email": "ada@example.com"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 409 after conclusion", func() {
			svc.submitEmailFn = func(_ context.Context, _ int64, _ string) error {
				return conversation.ErrConcluded
			}

			w := do(http.MethodPost, "/conversations/42/email", `{"email": "ada@example.com"}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
