package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sciforge/chemlab/internal/model"
)

// CreateExperiment inserts a new experiment record and returns it.
func (db *DB) CreateExperiment(ctx context.Context, userID string, req model.CreateExperimentRequest) (model.Experiment, error) {
	now := time.Now().UTC()
	exp := model.Experiment{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          req.Name,
		ChemicalsUsed: req.ChemicalsUsed,
		Results:       req.Results,
		Score:         req.Score,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if exp.ChemicalsUsed == nil {
		exp.ChemicalsUsed = []string{}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO experiments (id, user_id, experiment_name, chemicals_used, results, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		exp.ID, exp.UserID, exp.Name, exp.ChemicalsUsed, exp.Results, exp.Score, exp.CreatedAt, exp.UpdatedAt,
	)
	if err != nil {
		return model.Experiment{}, fmt.Errorf("storage: create experiment: %w", err)
	}
	return exp, nil
}

// SaveSession upserts the experiment record for an in-progress session,
// keyed on (user_id, experiment_name). Used by explicit save and auto-save.
func (db *DB) SaveSession(ctx context.Context, exp model.Experiment) error {
	now := time.Now().UTC()
	if exp.ChemicalsUsed == nil {
		exp.ChemicalsUsed = []string{}
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO experiments (id, user_id, experiment_name, chemicals_used, results, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (user_id, experiment_name) DO UPDATE
		 SET chemicals_used = excluded.chemicals_used,
		     results = excluded.results,
		     score = excluded.score,
		     updated_at = excluded.updated_at`,
		uuid.New(), exp.UserID, exp.Name, exp.ChemicalsUsed, exp.Results, exp.Score, now,
	)
	if err != nil {
		return fmt.Errorf("storage: save session: %w", err)
	}
	return nil
}

// GetExperiment retrieves an experiment by ID, scoped to its owner.
func (db *DB) GetExperiment(ctx context.Context, userID string, id uuid.UUID) (model.Experiment, error) {
	var exp model.Experiment
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, experiment_name, chemicals_used, results, score, created_at, updated_at
		 FROM experiments WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(
		&exp.ID, &exp.UserID, &exp.Name, &exp.ChemicalsUsed, &exp.Results, &exp.Score, &exp.CreatedAt, &exp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Experiment{}, ErrNotFound
		}
		return model.Experiment{}, fmt.Errorf("storage: get experiment: %w", err)
	}
	return exp, nil
}

// ListExperimentsByUser returns a user's experiments, newest first.
func (db *DB) ListExperimentsByUser(ctx context.Context, userID string, limit, offset int) ([]model.Experiment, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM experiments WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: count experiments: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, experiment_name, chemicals_used, results, score, created_at, updated_at
		 FROM experiments WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: list experiments: %w", err)
	}
	defer rows.Close()

	var exps []model.Experiment
	for rows.Next() {
		var e model.Experiment
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &e.ChemicalsUsed, &e.Results, &e.Score, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("storage: scan experiment: %w", err)
		}
		exps = append(exps, e)
	}
	return exps, total, rows.Err()
}
