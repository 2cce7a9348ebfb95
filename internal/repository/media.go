package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

const mediaColumns = `id, file_path, file_name, COALESCE(file_size, 0), COALESCE(mime_type, ''), width, height, imported_at, COALESCE(notes, '')`

// MediaRepository manages the media asset library.
type MediaRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewMediaRepository(db *sql.DB, logger *zap.SugaredLogger) *MediaRepository {
	return &MediaRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MediaRepository) Create(ctx context.Context, asset *model.MediaAsset) (int64, error) {
	query := `
		INSERT INTO media_assets (file_path, file_name, file_size, mime_type, width, height, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		asset.FilePath,
		asset.FileName,
		asset.FileSize,
		asset.MimeType,
		asset.Width,
		asset.Height,
		asset.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create media asset: %w", err)
	}

	r.logger.Debugw("Imported media asset", "id", id, "file_name", asset.FileName)
	return id, nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*model.MediaAsset, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_assets WHERE id = $1`

	var m model.MediaAsset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.FilePath, &m.FileName, &m.FileSize, &m.MimeType,
		&m.Width, &m.Height, &m.ImportedAt, &m.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media asset: %w", err)
	}

	return &m, nil
}

func (r *MediaRepository) List(ctx context.Context) ([]model.MediaAsset, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_assets ORDER BY imported_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list media assets: %w", err)
	}
	defer rows.Close()

	return scanMediaAssets(rows)
}

func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media asset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Usage lists the batches and posts that reference a media asset.
func (r *MediaRepository) Usage(ctx context.Context, mediaID int64) (*model.MediaUsage, error) {
	batchQuery := `
		SELECT b.id, b.name, COALESCE(b.description, ''), COALESCE(b.tags, ''), b.created_at, b.updated_at
		FROM batches b
		JOIN batch_media bm ON b.id = bm.batch_id
		WHERE bm.media_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, batchQuery, mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media batch usage: %w", err)
	}
	defer rows.Close()

	usage := &model.MediaUsage{Batches: []model.Batch{}, Posts: []model.PostSummary{}}
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		usage.Batches = append(usage.Batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	postQuery := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN post_media pm ON p.id = pm.post_id
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE pm.media_id = $1
		ORDER BY p.scheduled_at DESC NULLS LAST, p.created_at DESC
	`

	postRows, err := r.db.QueryContext(ctx, postQuery, mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media post usage: %w", err)
	}
	defer postRows.Close()

	posts, err := scanPostSummaries(postRows)
	if err != nil {
		return nil, err
	}
	usage.Posts = posts

	return usage, nil
}

func scanMediaAssets(rows *sql.Rows) ([]model.MediaAsset, error) {
	assets := []model.MediaAsset{}
	for rows.Next() {
		var m model.MediaAsset
		err := rows.Scan(
			&m.ID, &m.FilePath, &m.FileName, &m.FileSize, &m.MimeType,
			&m.Width, &m.Height, &m.ImportedAt, &m.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media asset: %w", err)
		}
		assets = append(assets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return assets, nil
}
