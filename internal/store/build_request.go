package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"buildpad.app/concierge/common/id"
	"buildpad.app/concierge/internal/model"
)

type buildRequestStore struct {
	pool *pgxpool.Pool
}

func newBuildRequestStore(pool *pgxpool.Pool) BuildRequestStore {
	return &buildRequestStore{pool: pool}
}

func (s *buildRequestStore) Create(ctx context.Context, req *model.BuildRequest) error {
	if req.ID == 0 {
		req.ID = id.New()
	}

	tasks, err := json.Marshal(req.Tasks)
	if err != nil {
		return fmt.Errorf("marshaling tasks: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO build_requests (id, conversation_id, email, scope, tasks, total_hours, estimate_standard, estimate_fast_track)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		req.ID, req.ConversationID, req.Email, req.Scope, tasks, req.TotalHours,
		req.Estimate.Standard, req.Estimate.FastTrack,
	)

	return row.Scan(&req.CreatedAt)
}

func (s *buildRequestStore) ListByEmail(ctx context.Context, email string) ([]model.BuildRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, email, scope, tasks, total_hours, estimate_standard, estimate_fast_track, created_at
		FROM build_requests
		WHERE email = $1
		ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BuildRequest
	for rows.Next() {
		var req model.BuildRequest
		var tasks []byte
		if err := rows.Scan(
			&req.ID, &req.ConversationID, &req.Email, &req.Scope, &tasks,
			&req.TotalHours, &req.Estimate.Standard, &req.Estimate.FastTrack, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tasks, &req.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshaling tasks: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
