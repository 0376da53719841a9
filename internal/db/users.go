package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

const uniqueViolation = "23505"

const reasonSignupBonus = "signup_bonus"

// CreateUser inserts the user and, when initialCoins > 0, the matching
// ledger row. Duplicate emails yield ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string, initialCoins int) (*models.User, error) {
	u := &models.User{Email: email, Name: name, PasswordHash: passwordHash, Coins: initialCoins}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, name, password_hash, coins)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`, email, name, passwordHash, initialCoins,
		).Scan(&u.ID, &u.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrDuplicate
			}
			return err
		}
		if initialCoins <= 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO coin_transactions (user_id, amount, reason, balance_after)
			VALUES ($1, $2, $3, $2)`, u.ID, initialCoins, reasonSignupBonus)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

const userCols = `id, email, name, password_hash, coins, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Coins, &u.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}
