package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LessonDifficulty grades a lesson for the dashboard filter.
type LessonDifficulty string

const (
	DifficultyBeginner     LessonDifficulty = "beginner"
	DifficultyIntermediate LessonDifficulty = "intermediate"
	DifficultyAdvanced     LessonDifficulty = "advanced"
)

// Lesson is a persisted tutorial entry served to the lessons panel.
type Lesson struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	Subject    string           `json:"subject"`
	Content    string           `json:"content"`
	Difficulty LessonDifficulty `json:"difficulty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// CreateLessonRequest is the payload for POST /v1/lessons.
type CreateLessonRequest struct {
	Title      string           `json:"title"`
	Subject    string           `json:"subject"`
	Content    string           `json:"content"`
	Difficulty LessonDifficulty `json:"difficulty"`
}

// Validate checks a lesson creation payload.
func (r CreateLessonRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	switch r.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	return nil
}
