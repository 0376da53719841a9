package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

// SpendCoins debits amount from the user's balance and records the ledger
// row. The balance never goes negative: a short balance returns
// ErrInsufficientCoins and changes nothing.
func (s *Store) SpendCoins(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("invalid spend amount %d", amount)
	}
	var balance int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		balance, err = spend(ctx, tx, userID, amount, reason)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to spend coins: %w", err)
	}
	return balance, nil
}

func spend(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int, reason string) (int, error) {
	var balance int
	err := tx.QueryRow(ctx, `
		UPDATE users SET coins = coins - $2
		WHERE id = $1 AND coins >= $2
		RETURNING coins`, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientCoins
	}
	if err != nil {
		return 0, err
	}
	if err := insertLedger(ctx, tx, userID, -amount, reason, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// CreditCoins adds amount to the balance. Used for purchases and refunds.
func (s *Store) CreditCoins(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("invalid credit amount %d", amount)
	}
	var balance int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE users SET coins = coins + $2
			WHERE id = $1
			RETURNING coins`, userID, amount).Scan(&balance)
		if err != nil {
			return notFound(err)
		}
		return insertLedger(ctx, tx, userID, amount, reason, balance)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to credit coins: %w", err)
	}
	return balance, nil
}

func insertLedger(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int, reason string, balance int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO coin_transactions (user_id, amount, reason, balance_after)
		VALUES ($1, $2, $3, $4)`, userID, amount, reason, balance)
	if err != nil {
		return fmt.Errorf("failed to record coin transaction: %w", err)
	}
	return nil
}

func (s *Store) CoinHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, reason, balance_after, created_at
		FROM coin_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list coin transactions: %w", err)
	}
	defer rows.Close()

	out := []models.CoinTransaction{}
	for rows.Next() {
		var t models.CoinTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Reason, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coin transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
