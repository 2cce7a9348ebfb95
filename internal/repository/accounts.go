package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

// AccountRepository reads the accounts and platforms reference tables. Both
// are seeded by migrations and rarely change.
type AccountRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewAccountRepository(db *sql.DB, logger *zap.SugaredLogger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	query := `
		SELECT id, name, type, COALESCE(description, ''), created_at
		FROM accounts
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	query := `
		SELECT id, name, type, COALESCE(description, ''), created_at
		FROM accounts
		WHERE id = $1
	`

	var a model.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Type, &a.Description, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}

func (r *AccountRepository) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	query := `
		SELECT id, name, display_name, COALESCE(color, ''), created_at
		FROM platforms
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	defer rows.Close()

	platforms := []model.Platform{}
	for rows.Next() {
		var p model.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return platforms, nil
}

// Ping verifies database connectivity for health checks.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
