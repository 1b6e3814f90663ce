package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"buildpad.app/concierge/common/id"
	"buildpad.app/concierge/internal/model"
)

type waitlistStore struct {
	pool *pgxpool.Pool
}

func newWaitlistStore(pool *pgxpool.Pool) WaitlistStore {
	return &waitlistStore{pool: pool}
}

func (s *waitlistStore) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	if entry.ID == 0 {
		entry.ID = id.New()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO waitlist_entries (id, email, source, interest_area, accept_marketing)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		entry.ID, entry.Email, entry.Source, entry.InterestArea, entry.AcceptMarketing,
	)

	if err := row.Scan(&entry.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (s *waitlistStore) GetByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, source, interest_area, accept_marketing, created_at
		FROM waitlist_entries
		WHERE email = $1`,
		email,
	)

	var entry model.WaitlistEntry
	err := row.Scan(&entry.ID, &entry.Email, &entry.Source, &entry.InterestArea, &entry.AcceptMarketing, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
