package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

// AddFavorite marks one of the user's reports as favorite. Marking twice
// is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, reportID uuid.UUID) error {
	var owned bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1 AND user_id = $2)`, reportID, userID).Scan(&owned)
	if err != nil {
		return fmt.Errorf("failed to check report %s: %w", reportID, err)
	}
	if !owned {
		return fmt.Errorf("failed to favorite report %s: %w", reportID, ErrNotFound)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO favorites (user_id, report_id) VALUES ($1, $2)
		ON CONFLICT (user_id, report_id) DO NOTHING`, userID, reportID)
	if err != nil {
		return fmt.Errorf("failed to favorite report %s: %w", reportID, err)
	}
	return nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, reportID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND report_id = $2`, userID, reportID); err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", reportID, err)
	}
	return nil
}

func (s *Store) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.report_id, r.query, r.title, f.created_at
		FROM favorites f
		JOIN reports r ON r.id = f.report_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	out := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ReportID, &f.Query, &f.Title, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
