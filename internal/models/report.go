package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

// StoredReport is a generated report owned by a user.
type StoredReport struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Query     string        `json:"query"`
	Report    report.Report `json:"report"`
	Favorite  bool          `json:"favorite"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID               uuid.UUID `json:"id"`
	Query            string    `json:"query"`
	Title            string    `json:"title"`
	CompetitionLevel string    `json:"competition_level"`
	CreatedAt        time.Time `json:"created_at"`
	// Similarity is set by similarity searches only (cosine, 1 = identical).
	Similarity *float64 `json:"similarity,omitempty"`
}

type Favorite struct {
	ReportID  uuid.UUID `json:"report_id"`
	Query     string    `json:"query"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
