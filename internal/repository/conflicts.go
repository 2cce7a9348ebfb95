package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

// The methods below satisfy the conflict engine's Querier interface. They
// mirror the repository's other joined queries but filter by the candidate
// shape the rules describe.

// PostsInWindow returns draft and scheduled posts on a platform scheduled
// within [from, to].
func (r *PostRepository) PostsInWindow(ctx context.Context, platformID int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error) {
	query := `
		SELECT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		WHERE p.platform_id = $1
			AND p.scheduled_at BETWEEN $2 AND $3
			AND p.status IN ('draft', 'scheduled')
	`
	args := []any{platformID, from, to}
	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND p.id != $%d", len(args))
	}
	query += " ORDER BY p.scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts in window: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// PostsUsingMedia returns non-archived posts attached to any of the media
// assets whose scheduled or posted time falls within [from, to].
func (r *PostRepository) PostsUsingMedia(ctx context.Context, mediaIDs []int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error) {
	if len(mediaIDs) == 0 {
		return []model.PostSummary{}, nil
	}

	args := int64Args(mediaIDs)
	query := `
		SELECT DISTINCT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		JOIN post_media pm ON p.id = pm.post_id
		WHERE pm.media_id IN (` + placeholders(1, len(mediaIDs)) + `)
	`
	args = append(args, from, to)
	query += fmt.Sprintf(`	AND (p.scheduled_at BETWEEN $%d AND $%d OR p.posted_at BETWEEN $%d AND $%d)
		AND p.status != 'archived'
	`, len(args)-1, len(args), len(args)-1, len(args))
	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND p.id != $%d", len(args))
	}
	query += " ORDER BY p.scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts using media: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// PostsUsingBatches is PostsUsingMedia for batch membership.
func (r *PostRepository) PostsUsingBatches(ctx context.Context, batchIDs []int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error) {
	if len(batchIDs) == 0 {
		return []model.PostSummary{}, nil
	}

	args := int64Args(batchIDs)
	query := `
		SELECT DISTINCT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		JOIN post_batches pb ON p.id = pb.post_id
		WHERE pb.batch_id IN (` + placeholders(1, len(batchIDs)) + `)
	`
	args = append(args, from, to)
	query += fmt.Sprintf(`	AND (p.scheduled_at BETWEEN $%d AND $%d OR p.posted_at BETWEEN $%d AND $%d)
		AND p.status != 'archived'
	`, len(args)-1, len(args), len(args)-1, len(args))
	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND p.id != $%d", len(args))
	}
	query += " ORDER BY p.scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts using batches: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}

// PostsSharingMediaAcrossAccounts returns non-archived posts on other
// accounts attached to any of the media assets whose scheduled or posted time
// falls within [from, to).
func (r *PostRepository) PostsSharingMediaAcrossAccounts(ctx context.Context, mediaIDs []int64, accountID int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error) {
	if len(mediaIDs) == 0 {
		return []model.PostSummary{}, nil
	}

	args := int64Args(mediaIDs)
	query := `
		SELECT DISTINCT ` + postSummaryColumns + `
		FROM posts p
		JOIN accounts a ON p.account_id = a.id
		JOIN platforms pl ON p.platform_id = pl.id
		JOIN post_media pm ON p.id = pm.post_id
		WHERE pm.media_id IN (` + placeholders(1, len(mediaIDs)) + `)
	`
	args = append(args, accountID)
	query += fmt.Sprintf("	AND p.account_id != $%d\n", len(args))
	args = append(args, from, to)
	query += fmt.Sprintf(`	AND (
			(p.scheduled_at >= $%d AND p.scheduled_at < $%d) OR
			(p.posted_at >= $%d AND p.posted_at < $%d)
		)
		AND p.status != 'archived'
	`, len(args)-1, len(args), len(args)-1, len(args))
	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND p.id != $%d", len(args))
	}
	query += " ORDER BY p.scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cross-account media posts: %w", err)
	}
	defer rows.Close()

	return scanPostSummaries(rows)
}
