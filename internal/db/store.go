package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrAlreadyEnrolled   = errors.New("already enrolled")
)

type Store struct {
	db Querier
}

func NewStore(db Querier) *Store {
	return &Store{db: db}
}

// inTx runs fn inside a transaction. Rollback only happens when fn or the
// commit fails.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// SaveReport stores a normalized report with its optional embedding.
func (s *Store) SaveReport(ctx context.Context, userID uuid.UUID, query string, rep report.Report, embedding []float32) (*models.StoredReport, error) {
	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	var vec *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vec = &v
	}

	stored := &models.StoredReport{UserID: userID, Query: query, Report: rep}
	err = s.db.QueryRow(ctx, `
		INSERT INTO reports (user_id, query, title, market_size, growth_rate, competition_level, entry_barriers, payload, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		userID, query, rep.Title, rep.MarketSize, rep.GrowthRate, rep.CompetitionLevel, rep.EntryBarriers, payload, vec,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}
	return stored, nil
}

func (s *Store) GetReport(ctx context.Context, userID, id uuid.UUID) (*models.StoredReport, error) {
	row := s.db.QueryRow(ctx, `
		SELECT r.id, r.user_id, r.query, r.payload, r.created_at, r.updated_at,
			EXISTS(SELECT 1 FROM favorites f WHERE f.report_id = r.id AND f.user_id = r.user_id)
		FROM reports r
		WHERE r.id = $1 AND r.user_id = $2`, id, userID)

	stored, err := scanStoredReport(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, notFound(err))
	}
	return stored, nil
}

func scanStoredReport(scan func(dest ...any) error) (*models.StoredReport, error) {
	var (
		r       models.StoredReport
		payload []byte
	)
	if err := scan(&r.ID, &r.UserID, &r.Query, &payload, &r.CreatedAt, &r.UpdatedAt, &r.Favorite); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &r.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report payload: %w", err)
	}
	return &r, nil
}

func (s *Store) ListReports(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ReportSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, query, title, competition_level, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	out := []models.ReportSummary{}
	for rows.Next() {
		var r models.ReportSummary
		if err := rows.Scan(&r.ID, &r.Query, &r.Title, &r.CompetitionLevel, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateReport loads the stored report, applies the sanitized edit and
// writes it back under a row lock.
func (s *Store) UpdateReport(ctx context.Context, userID, id uuid.UUID, edit report.Edit) (*models.StoredReport, error) {
	var stored *models.StoredReport
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT r.id, r.user_id, r.query, r.payload, r.created_at, r.updated_at,
				EXISTS(SELECT 1 FROM favorites f WHERE f.report_id = r.id AND f.user_id = r.user_id)
			FROM reports r
			WHERE r.id = $1 AND r.user_id = $2
			FOR UPDATE`, id, userID)
		var err error
		stored, err = scanStoredReport(row.Scan)
		if err != nil {
			return notFound(err)
		}

		stored.Report.ApplyEdit(edit)
		payload, err := json.Marshal(stored.Report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}

		rep := stored.Report
		return tx.QueryRow(ctx, `
			UPDATE reports
			SET title = $3, market_size = $4, growth_rate = $5, competition_level = $6,
				entry_barriers = $7, payload = $8, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING updated_at`,
			id, userID, rep.Title, rep.MarketSize, rep.GrowthRate, rep.CompetitionLevel, rep.EntryBarriers, payload,
		).Scan(&stored.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update report %s: %w", id, err)
	}
	return stored, nil
}

func (s *Store) DeleteReport(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete report %s: %w", id, ErrNotFound)
	}
	return nil
}

// SimilarReports ranks the user's other reports by cosine distance to the
// embedding of report id. Reports without embeddings are never returned.
func (s *Store) SimilarReports(ctx context.Context, userID, id uuid.UUID, limit int) ([]models.ReportSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var source *pgvector.Vector
	err := s.db.QueryRow(ctx, `SELECT embedding FROM reports WHERE id = $1 AND user_id = $2`, id, userID).Scan(&source)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, notFound(err))
	}
	if source == nil {
		return []models.ReportSummary{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, query, title, competition_level, created_at, 1 - (embedding <=> $3) AS similarity
		FROM reports
		WHERE user_id = $1 AND id <> $2 AND embedding IS NOT NULL
		ORDER BY embedding <=> $3
		LIMIT $4`, userID, id, *source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar reports: %w", err)
	}
	defer rows.Close()

	out := []models.ReportSummary{}
	for rows.Next() {
		var (
			r   models.ReportSummary
			sim float64
		)
		if err := rows.Scan(&r.ID, &r.Query, &r.Title, &r.CompetitionLevel, &r.CreatedAt, &sim); err != nil {
			return nil, fmt.Errorf("failed to scan similar report: %w", err)
		}
		r.Similarity = &sim
		out = append(out, r)
	}
	return out, rows.Err()
}

// recent bounds list sizes on the dashboard.
const recent = 5

func (s *Store) GetDashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	var d models.Dashboard
	err := s.db.QueryRow(ctx, `
		SELECT u.coins,
			(SELECT COUNT(*) FROM reports WHERE user_id = u.id),
			(SELECT COUNT(*) FROM favorites WHERE user_id = u.id),
			(SELECT COUNT(*) FROM enrollments WHERE user_id = u.id),
			(SELECT COUNT(*) FROM enrollments WHERE user_id = u.id AND completed_at IS NOT NULL)
		FROM users u
		WHERE u.id = $1`, userID,
	).Scan(&d.Coins, &d.ReportCount, &d.FavoriteCount, &d.EnrollmentCount, &d.CompletedCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", notFound(err))
	}

	if d.RecentReports, err = s.ListReports(ctx, userID, recent, 0); err != nil {
		return nil, err
	}
	if d.RecentTransactions, err = s.CoinHistory(ctx, userID, recent); err != nil {
		return nil, err
	}
	return &d, nil
}
