package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

const courseCols = `id, slug, title, summary, description_html, price_coins, lessons, created_at`

func scanCourse(scan func(dest ...any) error) (models.Course, error) {
	var c models.Course
	err := scan(&c.ID, &c.Slug, &c.Title, &c.Summary, &c.DescriptionHTML, &c.PriceCoins, &c.Lessons, &c.CreatedAt)
	return c, err
}

// UpsertCourse inserts or updates a course keyed by slug.
func (s *Store) UpsertCourse(ctx context.Context, c models.Course) (*models.Course, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO courses (slug, title, summary, description_html, price_coins, lessons)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			description_html = EXCLUDED.description_html,
			price_coins = EXCLUDED.price_coins,
			lessons = EXCLUDED.lessons
		RETURNING id, created_at`,
		c.Slug, c.Title, c.Summary, c.DescriptionHTML, c.PriceCoins, c.Lessons,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert course %s: %w", c.Slug, err)
	}
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.Query(ctx, `SELECT `+courseCols+` FROM courses ORDER BY price_coins, title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	out := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCourse looks a course up by id or slug.
func (s *Store) GetCourse(ctx context.Context, idOrSlug string) (*models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(ctx, `SELECT `+courseCols+` FROM courses WHERE id::text = $1 OR slug = $1`, idOrSlug).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", idOrSlug, notFound(err))
	}
	return &c, nil
}

// Enroll inserts the enrollment and spends the course price in a single
// transaction. It returns the enrollment and the remaining balance.
func (s *Store) Enroll(ctx context.Context, userID uuid.UUID, course models.Course) (*models.Enrollment, int, error) {
	e := &models.Enrollment{CourseID: course.ID, CourseSlug: course.Slug, CourseTitle: course.Title}
	var balance int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2)
			ON CONFLICT (user_id, course_id) DO NOTHING
			RETURNING progress, enrolled_at`, userID, course.ID,
		).Scan(&e.Progress, &e.EnrolledAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAlreadyEnrolled
			}
			return err
		}

		if course.PriceCoins > 0 {
			balance, err = spend(ctx, tx, userID, course.PriceCoins, "course:"+course.Slug)
			return err
		}
		return tx.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&balance)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to enroll in %s: %w", course.Slug, err)
	}
	return e, balance, nil
}

// UpdateProgress sets progress, clamped to 0-100. Reaching 100 stamps
// completed_at once; dropping below clears it.
func (s *Store) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) (*models.Enrollment, error) {
	progress = max(0, min(progress, 100))

	var e models.Enrollment
	err := s.db.QueryRow(ctx, `
		UPDATE enrollments e
		SET progress = $3,
			completed_at = CASE WHEN $3 >= 100 THEN COALESCE(e.completed_at, NOW()) ELSE NULL END
		FROM courses c
		WHERE e.user_id = $1 AND e.course_id = $2 AND c.id = e.course_id
		RETURNING e.course_id, c.slug, c.title, e.progress, e.enrolled_at, e.completed_at`,
		userID, courseID, progress,
	).Scan(&e.CourseID, &e.CourseSlug, &e.CourseTitle, &e.Progress, &e.EnrolledAt, &e.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", notFound(err))
	}
	return &e, nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.course_id, c.slug, c.title, e.progress, e.enrolled_at, e.completed_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	out := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.CourseID, &e.CourseSlug, &e.CourseTitle, &e.Progress, &e.EnrolledAt, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
