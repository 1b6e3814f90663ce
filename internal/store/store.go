// Package store is the persistence layer over Postgres. Queries are written
// by hand against pgx; services depend on the interfaces so tests can swap
// in function-field mocks.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"buildpad.app/concierge/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyRegistered is the distinguished, recoverable outcome of a
	// unique-constraint violation on email. Not a fatal error.
	ErrAlreadyRegistered = errors.New("email already registered")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type WaitlistStore interface {
	Create(ctx context.Context, entry *model.WaitlistEntry) error
	GetByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error)
}

type BuildRequestStore interface {
	Create(ctx context.Context, req *model.BuildRequest) error
	ListByEmail(ctx context.Context, email string) ([]model.BuildRequest, error)
}

// Stores bundles the typed stores over one pool.
type Stores struct {
	waitlist      WaitlistStore
	buildRequests BuildRequestStore
}

func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{
		waitlist:      newWaitlistStore(pool),
		buildRequests: newBuildRequestStore(pool),
	}
}

func (s *Stores) Waitlist() WaitlistStore {
	return s.waitlist
}

func (s *Stores) BuildRequests() BuildRequestStore {
	return s.buildRequests
}
