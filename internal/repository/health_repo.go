package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sakhi-junction/internal/model"
)

// HealthRepository stores the tracker as one JSONB document per user, the
// same shape the legacy document store used.
type HealthRepository struct {
	pool *pgxpool.Pool
}

func NewHealthRepository(pool *pgxpool.Pool) *HealthRepository {
	return &HealthRepository{pool: pool}
}

// Get returns the document and whether one exists. Absence is not an error:
// the service lazily creates a default document on first read.
func (r *HealthRepository) Get(ctx context.Context, userID string) (model.HealthData, bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM health_data WHERE user_id = $1`, userID).Scan(&raw)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.HealthData{}, false, nil
	}
	if err != nil {
		return model.HealthData{}, false, fmt.Errorf("get health data: %w", err)
	}

	var data model.HealthData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.HealthData{}, false, fmt.Errorf("decode health data: %w", err)
	}

	return data, true, nil
}

func (r *HealthRepository) Upsert(ctx context.Context, userID string, data model.HealthData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode health data: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO health_data (user_id, document, last_updated) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET document = $2, last_updated = $3`,
		userID, raw, data.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert health data: %w", err)
	}
	return nil
}

func (r *HealthRepository) Delete(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM health_data WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete health data: %w", err)
	}
	return tag.RowsAffected(), nil
}
