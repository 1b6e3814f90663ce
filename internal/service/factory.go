package service

import (
	"buildpad.app/concierge/internal/conversation"
	"buildpad.app/concierge/internal/store"
	"buildpad.app/concierge/internal/telemetry"
)

type Services struct {
	stores  *store.Stores
	manager *conversation.Manager
	sink    telemetry.Sink
}

func NewServices(stores *store.Stores, manager *conversation.Manager, sink telemetry.Sink) *Services {
	if sink == nil {
		sink = telemetry.Nop()
	}
	return &Services{
		stores:  stores,
		manager: manager,
		sink:    sink,
	}
}

func (s *Services) Waitlist() WaitlistService {
	return NewWaitlistService(s.stores.Waitlist(), s.sink)
}

func (s *Services) Scoping() ScopingService {
	return NewScopingService(s.manager, s.stores.BuildRequests())
}
