package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	DescriptionHTML string    `json:"description_html"`
	PriceCoins      int       `json:"price_coins"`
	Lessons         int       `json:"lessons"`
	CreatedAt       time.Time `json:"created_at"`
}

// Enrollment tracks a user's progress (0-100) through a course.
type Enrollment struct {
	CourseID    uuid.UUID  `json:"course_id"`
	CourseSlug  string     `json:"course_slug"`
	CourseTitle string     `json:"course_title"`
	Progress    int        `json:"progress"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
