package service

import (
	"context"
	"fmt"
	"time"

	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/model"
	"buildpad.app/concierge/internal/store"
)

// retryDelay is the short pause before a user-invoked retry resubmits the
// restored message. Independent of, and stacking with, the gateway's own
// retry loop.
const retryDelay = 500 * time.Millisecond

type ScopingService interface {
	// Start opens a conversation; a non-empty initial prompt (carried over
	// from the landing page) is submitted as the first turn.
	Start(ctx context.Context, initialPrompt string) (conversation.State, error)
	Get(ctx context.Context, conversationID int64) (conversation.State, error)
	Send(ctx context.Context, conversationID int64, text string, fileNames []string) (*conversation.Turn, error)
	// Retry rewinds the last exchange and resubmits its text after a short
	// fixed delay.
	Retry(ctx context.Context, conversationID int64) (*conversation.Turn, error)
	// SubmitEmail records the contact email for a concluded scoping flow.
	// One-shot per conversation.
	SubmitEmail(ctx context.Context, conversationID int64, email string) error
}

type scopingService struct {
	manager       *conversation.Manager
	buildRequests store.BuildRequestStore
	retryDelay    time.Duration
}

func NewScopingService(manager *conversation.Manager, buildRequests store.BuildRequestStore) ScopingService {
	return &scopingService{
		manager:       manager,
		buildRequests: buildRequests,
		retryDelay:    retryDelay,
	}
}

func (s *scopingService) Start(ctx context.Context, initialPrompt string) (conversation.State, error) {
	ctl := s.manager.Create()

	if initialPrompt != "" {
		if _, err := ctl.Submit(ctx, initialPrompt, nil); err != nil {
			return conversation.State{}, fmt.Errorf("submitting initial prompt: %w", err)
		}
	}

	return ctl.State(), nil
}

func (s *scopingService) Get(ctx context.Context, conversationID int64) (conversation.State, error) {
	ctl, err := s.manager.Get(conversationID)
	if err != nil {
		return conversation.State{}, err
	}
	return ctl.State(), nil
}

func (s *scopingService) Send(ctx context.Context, conversationID int64, text string, fileNames []string) (*conversation.Turn, error) {
	ctl, err := s.manager.Get(conversationID)
	if err != nil {
		return nil, err
	}
	return ctl.Submit(ctx, text, fileNames)
}

func (s *scopingService) Retry(ctx context.Context, conversationID int64) (*conversation.Turn, error) {
	ctl, err := s.manager.Get(conversationID)
	if err != nil {
		return nil, err
	}

	text, ok := ctl.RestoreLastTurn()
	if !ok || text == "" {
		return nil, conversation.ErrEmptyTurn
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.retryDelay):
	}

	return ctl.Submit(ctx, text, nil)
}

func (s *scopingService) SubmitEmail(ctx context.Context, conversationID int64, email string) error {
	ctl, err := s.manager.Get(conversationID)
	if err != nil {
		return err
	}

	return ctl.Conclude(ctx, email, func(ctx context.Context, email string, result *model.ProjectResult) error {
		req := &model.BuildRequest{
			ConversationID: conversationID,
			Email:          email,
			Scope:          result.Scope,
			Tasks:          result.Tasks,
			TotalHours:     result.TotalHours,
			Estimate:       result.Estimate,
		}
		if err := s.buildRequests.Create(ctx, req); err != nil {
			return fmt.Errorf("recording build request: %w", err)
		}
		return nil
	})
}
