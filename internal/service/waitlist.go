package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"buildpad.app/concierge/common/logger"
	"buildpad.app/concierge/internal/model"
	"buildpad.app/concierge/internal/store"
	"buildpad.app/concierge/internal/telemetry"
)

type WaitlistService interface {
	// Join registers an email. A duplicate email is reported via the
	// alreadyRegistered flag, not an error.
	Join(ctx context.Context, email, source, interestArea string, acceptMarketing bool) (entry *model.WaitlistEntry, alreadyRegistered bool, err error)
}

type waitlistService struct {
	waitlist store.WaitlistStore
	sink     telemetry.Sink
}

func NewWaitlistService(waitlist store.WaitlistStore, sink telemetry.Sink) WaitlistService {
	if sink == nil {
		sink = telemetry.Nop()
	}
	return &waitlistService{waitlist: waitlist, sink: sink}
}

func (s *waitlistService) Join(ctx context.Context, email, source, interestArea string, acceptMarketing bool) (*model.WaitlistEntry, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Email:     logger.Ptr(email),
		Component: "concierge.service.waitlist",
	})

	entry := &model.WaitlistEntry{
		Email:           email,
		Source:          source,
		InterestArea:    interestArea,
		AcceptMarketing: acceptMarketing,
	}

	if err := s.waitlist.Create(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyRegistered) {
			slog.InfoContext(ctx, "waitlist signup repeated")
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("creating waitlist entry: %w", err)
	}

	slog.InfoContext(ctx, "waitlist signup recorded", "source", source)
	s.sink.Record(ctx, "waitlist_joined", map[string]any{
		"source":        source,
		"interest_area": interestArea,
	})

	return entry, false, nil
}
