package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/apexhub/core/authz"
)

// FindAccountByTelegramID returns the account for a Telegram user ID, or
// (nil, nil) when no account exists.
func (r *Repository) FindAccountByTelegramID(ctx context.Context, telegramID int64) (*authz.Account, error) {
	var a authz.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, telegram_id, full_name, username, photo_url
		 FROM accounts WHERE telegram_id = $1`,
		telegramID,
	).Scan(&a.ID, &a.TelegramID, &a.FullName, &a.Username, &a.PhotoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account by telegram id: %w", err)
	}
	return &a, nil
}

// UpsertAccount creates the account for a Telegram user or refreshes its
// profile fields on repeat sign-in. Returns the stored row.
func (r *Repository) UpsertAccount(ctx context.Context, acc authz.Account) (*authz.Account, error) {
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}

	var out authz.Account
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, telegram_id, full_name, username, photo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (telegram_id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   username = EXCLUDED.username,
		   photo_url = EXCLUDED.photo_url,
		   updated_at = now()
		 RETURNING id, telegram_id, full_name, username, photo_url`,
		acc.ID, acc.TelegramID, acc.FullName, acc.Username, acc.PhotoURL,
	).Scan(&out.ID, &out.TelegramID, &out.FullName, &out.Username, &out.PhotoURL)
	if err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}
	return &out, nil
}
