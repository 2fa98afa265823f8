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

// CreateLesson inserts a new lesson and returns it.
func (db *DB) CreateLesson(ctx context.Context, req model.CreateLessonRequest) (model.Lesson, error) {
	lesson := model.Lesson{
		ID:         uuid.New(),
		Title:      req.Title,
		Subject:    req.Subject,
		Content:    req.Content,
		Difficulty: req.Difficulty,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO lessons (id, title, subject, content, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		lesson.ID, lesson.Title, lesson.Subject, lesson.Content, string(lesson.Difficulty), lesson.CreatedAt,
	)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("storage: create lesson: %w", err)
	}
	return lesson, nil
}

// GetLesson retrieves a lesson by ID.
func (db *DB) GetLesson(ctx context.Context, id uuid.UUID) (model.Lesson, error) {
	var l model.Lesson
	var difficulty string
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, subject, content, difficulty, created_at
		 FROM lessons WHERE id = $1`, id,
	).Scan(&l.ID, &l.Title, &l.Subject, &l.Content, &difficulty, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Lesson{}, ErrNotFound
		}
		return model.Lesson{}, fmt.Errorf("storage: get lesson: %w", err)
	}
	l.Difficulty = model.LessonDifficulty(difficulty)
	return l, nil
}

// ListLessons returns lessons ordered by title, optionally filtered by
// subject.
func (db *DB) ListLessons(ctx context.Context, subject string, limit, offset int) ([]model.Lesson, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lessons WHERE ($1 = '' OR subject = $1)`, subject,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: count lessons: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, subject, content, difficulty, created_at
		 FROM lessons WHERE ($1 = '' OR subject = $1)
		 ORDER BY title
		 LIMIT $2 OFFSET $3`,
		subject, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		var difficulty string
		if err := rows.Scan(&l.ID, &l.Title, &l.Subject, &l.Content, &difficulty, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("storage: scan lesson: %w", err)
		}
		l.Difficulty = model.LessonDifficulty(difficulty)
		lessons = append(lessons, l)
	}
	return lessons, total, rows.Err()
}
