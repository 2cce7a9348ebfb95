package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

const batchColumns = `id, name, COALESCE(description, ''), COALESCE(tags, ''), created_at, updated_at`

// BatchRepository manages batches (photo sets) and their media membership.
type BatchRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewBatchRepository(db *sql.DB, logger *zap.SugaredLogger) *BatchRepository {
	return &BatchRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BatchRepository) Create(ctx context.Context, name, description, tags string) (int64, error) {
	query := `
		INSERT INTO batches (name, description, tags)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, name, description, tags).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create batch: %w", err)
	}

	r.logger.Debugw("Created batch", "id", id, "name", name)
	return id, nil
}

// List returns all batches with their media counts, newest first.
func (r *BatchRepository) List(ctx context.Context) ([]model.BatchSummary, error) {
	query := `
		SELECT b.id, b.name, COALESCE(b.description, ''), COALESCE(b.tags, ''), b.created_at, b.updated_at,
			COUNT(bm.media_id) AS media_count
		FROM batches b
		LEFT JOIN batch_media bm ON b.id = bm.batch_id
		GROUP BY b.id
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	batches := []model.BatchSummary{}
	for rows.Next() {
		var b model.BatchSummary
		err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt, &b.MediaCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return batches, nil
}

// GetByID returns a batch with its media in sort order.
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*model.BatchDetails, error) {
	var b model.BatchDetails
	err := r.db.QueryRowContext(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id).Scan(
		&b.ID, &b.Name, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	mediaQuery := `
		SELECT m.id, m.file_path, m.file_name, COALESCE(m.file_size, 0), COALESCE(m.mime_type, ''),
			m.width, m.height, m.imported_at, COALESCE(m.notes, '')
		FROM media_assets m
		JOIN batch_media bm ON m.id = bm.media_id
		WHERE bm.batch_id = $1
		ORDER BY bm.sort_order
	`

	rows, err := r.db.QueryContext(ctx, mediaQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch media: %w", err)
	}
	defer rows.Close()

	media, err := scanMediaAssets(rows)
	if err != nil {
		return nil, err
	}
	b.Media = media

	return &b, nil
}

// BatchUpdate holds optional field changes; nil means leave unchanged.
type BatchUpdate struct {
	Name        *string
	Description *string
	Tags        *string
}

func (r *BatchRepository) Update(ctx context.Context, id int64, updates BatchUpdate) error {
	fields := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Name != nil {
		add("name", *updates.Name)
	}
	if updates.Description != nil {
		add("description", *updates.Description)
	}
	if updates.Tags != nil {
		add("tags", *updates.Tags)
	}
	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE batches SET %s WHERE id = $%d", strings.Join(fields, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BatchRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
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

// AddMedia attaches media assets to a batch, appending to the current sort
// order. Already-attached assets are skipped.
func (r *BatchRepository) AddMedia(ctx context.Context, batchID int64, mediaIDs []int64) error {
	if len(mediaIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM batch_media WHERE batch_id = $1`, batchID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read batch sort order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batch_media (batch_id, media_id, sort_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (batch_id, media_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, mediaID := range mediaIDs {
		if _, err := stmt.ExecContext(ctx, batchID, mediaID, next+i); err != nil {
			return fmt.Errorf("failed to add media to batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debugw("Added media to batch", "batch_id", batchID, "count", len(mediaIDs))
	return nil
}

func (r *BatchRepository) RemoveMedia(ctx context.Context, batchID, mediaID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM batch_media WHERE batch_id = $1 AND media_id = $2`, batchID, mediaID)
	if err != nil {
		return fmt.Errorf("failed to remove media from batch: %w", err)
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

// MediaLinks returns the raw batch_media join rows, for export.
func (r *BatchRepository) MediaLinks(ctx context.Context) ([]model.BatchMediaLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT batch_id, media_id, sort_order FROM batch_media ORDER BY batch_id, sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch media links: %w", err)
	}
	defer rows.Close()

	links := []model.BatchMediaLink{}
	for rows.Next() {
		var l model.BatchMediaLink
		if err := rows.Scan(&l.BatchID, &l.MediaID, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan batch media link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return links, nil
}

// Usage lists the posts that reference a batch.
func (r *BatchRepository) Usage(ctx context.Context, batchID int64) ([]model.PostSummary, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN post_batches pb ON p.id = pb.post_id
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE pb.batch_id = $1
		ORDER BY p.scheduled_at DESC NULLS LAST, p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch usage: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}
