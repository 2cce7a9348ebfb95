package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

const postSummaryColumns = `p.id, p.account_id, p.platform_id, p.status, COALESCE(p.caption, ''),
	p.scheduled_at, p.posted_at, COALESCE(p.post_url, ''), COALESCE(p.post_external_id, ''),
	COALESCE(p.notes, ''), p.created_at, p.updated_at,
	a.name AS account_name, pl.display_name AS platform_name`

// PostRepository manages posts, their attachments, and the candidate queries
// the conflict rules run.
type PostRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewPostRepository(db *sql.DB, logger *zap.SugaredLogger) *PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a post and its media and batch attachments in one
// transaction. Media keep the order they were given.
func (r *PostRepository) Create(ctx context.Context, post *model.Post, mediaIDs, batchIDs []int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (account_id, platform_id, status, caption, scheduled_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		post.AccountID,
		post.PlatformID,
		post.Status,
		post.Caption,
		post.ScheduledAt,
		post.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create post: %w", err)
	}

	if err := insertPostMedia(ctx, tx, id, mediaIDs); err != nil {
		return 0, err
	}
	if err := insertPostBatches(ctx, tx, id, batchIDs); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debugw("Created post", "id", id, "account_id", post.AccountID, "platform_id", post.PlatformID)
	return id, nil
}

func insertPostMedia(ctx context.Context, tx *sql.Tx, postID int64, mediaIDs []int64) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO post_media (post_id, media_id, sort_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, media_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, mediaID := range mediaIDs {
		if _, err := stmt.ExecContext(ctx, postID, mediaID, i); err != nil {
			return fmt.Errorf("failed to attach media to post: %w", err)
		}
	}
	return nil
}

func insertPostBatches(ctx context.Context, tx *sql.Tx, postID int64, batchIDs []int64) error {
	if len(batchIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO post_batches (post_id, batch_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, batch_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, batchID := range batchIDs {
		if _, err := stmt.ExecContext(ctx, postID, batchID); err != nil {
			return fmt.Errorf("failed to attach batch to post: %w", err)
		}
	}
	return nil
}

// GetByID returns a post with its media and batches attached.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.PostDetails, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE p.id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	summary, err := scanPostSummaryRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	details := &model.PostDetails{PostSummary: *summary}
	if err := r.attach(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// List returns all posts with attachments, most relevant first: scheduled
// posts by schedule, the rest by creation time.
func (r *PostRepository) List(ctx context.Context) ([]model.PostDetails, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		ORDER BY COALESCE(p.scheduled_at, p.created_at) DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	summaries, err := scanPostSummaries(rows)
	if err != nil {
		return nil, err
	}

	details := make([]model.PostDetails, len(summaries))
	for i, s := range summaries {
		details[i] = model.PostDetails{PostSummary: s}
		if err := r.attach(ctx, &details[i]); err != nil {
			return nil, err
		}
	}
	return details, nil
}

// ListSummaries returns every post without attachments, for export.
func (r *PostRepository) ListSummaries(ctx context.Context) ([]model.PostSummary, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// ListByDateRange returns posts whose scheduled or posted time falls within
// [from, to], ordered chronologically.
func (r *PostRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.PostSummary, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE (p.scheduled_at BETWEEN $1 AND $2) OR (p.posted_at BETWEEN $1 AND $2)
		ORDER BY COALESCE(p.scheduled_at, p.posted_at)
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by date range: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// Search matches captions, notes, account names, and platform names,
// case-insensitively.
func (r *PostRepository) Search(ctx context.Context, term string) ([]model.PostSummary, error) {
	pattern := "%" + term + "%"
	query := `
		SELECT DISTINCT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE p.caption ILIKE $1 OR p.notes ILIKE $1 OR a.name ILIKE $1 OR pl.display_name ILIKE $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// PostUpdate holds optional field changes; nil means leave unchanged. The
// Clear flags set their timestamp column to NULL.
type PostUpdate struct {
	Status           *model.PostStatus
	Caption          *string
	ScheduledAt      *time.Time
	ClearScheduledAt bool
	PostedAt         *time.Time
	ClearPostedAt    bool
	PostURL          *string
	ExternalID       *string
	Notes            *string
}

func (r *PostRepository) Update(ctx context.Context, id int64, updates PostUpdate) error {
	fields := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Status != nil {
		add("status", *updates.Status)
	}
	if updates.Caption != nil {
		add("caption", *updates.Caption)
	}
	if updates.ClearScheduledAt {
		fields = append(fields, "scheduled_at = NULL")
	} else if updates.ScheduledAt != nil {
		add("scheduled_at", *updates.ScheduledAt)
	}
	if updates.ClearPostedAt {
		fields = append(fields, "posted_at = NULL")
	} else if updates.PostedAt != nil {
		add("posted_at", *updates.PostedAt)
	}
	if updates.PostURL != nil {
		add("post_url", *updates.PostURL)
	}
	if updates.ExternalID != nil {
		add("post_external_id", *updates.ExternalID)
	}
	if updates.Notes != nil {
		add("notes", *updates.Notes)
	}
	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d", strings.Join(fields, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
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

// ReplaceMedia swaps a post's media attachments for the given set.
func (r *PostRepository) ReplaceMedia(ctx context.Context, postID int64, mediaIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_media WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear post media: %w", err)
	}
	if err := insertPostMedia(ctx, tx, postID, mediaIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceBatches swaps a post's batch attachments for the given set.
func (r *PostRepository) ReplaceBatches(ctx context.Context, postID int64, batchIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_batches WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear post batches: %w", err)
	}
	if err := insertPostBatches(ctx, tx, postID, batchIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AttachmentIDs returns the media and batch ids attached to a post, in sort
// order. Conflict checks on saved posts use these as candidate inputs.
func (r *PostRepository) AttachmentIDs(ctx context.Context, postID int64) (mediaIDs, batchIDs []int64, err error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT media_id FROM post_media WHERE post_id = $1 ORDER BY sort_order`, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query post media ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("failed to scan media id: %w", err)
		}
		mediaIDs = append(mediaIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	batchRows, err := r.db.QueryContext(ctx,
		`SELECT batch_id FROM post_batches WHERE post_id = $1 ORDER BY batch_id`, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query post batch ids: %w", err)
	}
	defer batchRows.Close()

	for batchRows.Next() {
		var id int64
		if err := batchRows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("failed to scan batch id: %w", err)
		}
		batchIDs = append(batchIDs, id)
	}
	if err := batchRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	return mediaIDs, batchIDs, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
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

// MediaLinks returns the raw post_media join rows, for export.
func (r *PostRepository) MediaLinks(ctx context.Context) ([]model.PostMediaLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, media_id, sort_order FROM post_media ORDER BY post_id, sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list post media links: %w", err)
	}
	defer rows.Close()

	links := []model.PostMediaLink{}
	for rows.Next() {
		var l model.PostMediaLink
		if err := rows.Scan(&l.PostID, &l.MediaID, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan post media link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return links, nil
}

// BatchLinks returns the raw post_batches join rows, for export.
func (r *PostRepository) BatchLinks(ctx context.Context) ([]model.PostBatchLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, batch_id FROM post_batches ORDER BY post_id, batch_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list post batch links: %w", err)
	}
	defer rows.Close()

	links := []model.PostBatchLink{}
	for rows.Next() {
		var l model.PostBatchLink
		if err := rows.Scan(&l.PostID, &l.BatchID); err != nil {
			return nil, fmt.Errorf("failed to scan post batch link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return links, nil
}

// attach loads a post's media (in sort order) and batches.
func (r *PostRepository) attach(ctx context.Context, details *model.PostDetails) error {
	mediaQuery := `
		SELECT m.id, m.file_path, m.file_name, COALESCE(m.file_size, 0), COALESCE(m.mime_type, ''),
			m.width, m.height, m.imported_at, COALESCE(m.notes, '')
		FROM media_assets m
		JOIN post_media pm ON m.id = pm.media_id
		WHERE pm.post_id = $1
		ORDER BY pm.sort_order
	`

	rows, err := r.db.QueryContext(ctx, mediaQuery, details.ID)
	if err != nil {
		return fmt.Errorf("failed to query post media: %w", err)
	}
	defer rows.Close()

	media, err := scanMediaAssets(rows)
	if err != nil {
		return err
	}
	details.Media = media

	batchQuery := `
		SELECT b.id, b.name, COALESCE(b.description, ''), COALESCE(b.tags, ''), b.created_at, b.updated_at
		FROM batches b
		JOIN post_batches pb ON b.id = pb.batch_id
		WHERE pb.post_id = $1
		ORDER BY b.id
	`

	batchRows, err := r.db.QueryContext(ctx, batchQuery, details.ID)
	if err != nil {
		return fmt.Errorf("failed to query post batches: %w", err)
	}
	defer batchRows.Close()

	batches := []model.Batch{}
	for batchRows.Next() {
		var b model.Batch
		if err := batchRows.Scan(&b.ID, &b.Name, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := batchRows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	details.Batches = batches

	return nil
}

func scanPostSummaries(rows *sql.Rows) ([]model.PostSummary, error) {
	posts := []model.PostSummary{}
	for rows.Next() {
		var p model.PostSummary
		err := rows.Scan(
			&p.ID, &p.AccountID, &p.PlatformID, &p.Status, &p.Caption,
			&p.ScheduledAt, &p.PostedAt, &p.PostURL, &p.ExternalID,
			&p.Notes, &p.CreatedAt, &p.UpdatedAt,
			&p.AccountName, &p.PlatformName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return posts, nil
}

func scanPostSummaryRow(row *sql.Row) (*model.PostSummary, error) {
	var p model.PostSummary
	err := row.Scan(
		&p.ID, &p.AccountID, &p.PlatformID, &p.Status, &p.Caption,
		&p.ScheduledAt, &p.PostedAt, &p.PostURL, &p.ExternalID,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt,
		&p.AccountName, &p.PlatformName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
