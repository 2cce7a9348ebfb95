package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
)

// timeConflictRule flags other draft or scheduled posts on the same platform
// within the configured window around the candidate's scheduled time.
type timeConflictRule struct {
	q Querier
}

func (r *timeConflictRule) Name() string { return string(TypeTimeConflict) }

func (r *timeConflictRule) Evaluate(ctx context.Context, c Candidate, snap settings.Snapshot) (*Warning, error) {
	// A partially-filled draft may omit the platform; skip rather than fail.
	if c.PlatformID == 0 || c.ScheduledAt == nil || !snap.Bool(settings.KeyWarnTimeConflicts) {
		return nil, nil
	}

	window := time.Duration(snap.Int(settings.KeyTimeConflictWindowMin)) * time.Minute
	from := c.ScheduledAt.Add(-window)
	to := c.ScheduledAt.Add(window)

	posts, err := r.q.PostsInWindow(ctx, c.PlatformID, from, to, c.PostID)
	if err != nil {
		return nil, err
	}
	posts = dedupePosts(posts)
	if len(posts) == 0 {
		return nil, nil
	}

	return &Warning{
		Type:             TypeTimeConflict,
		Severity:         SeverityWarning,
		Message:          fmt.Sprintf("Scheduling conflict: %d other post(s) scheduled around the same time", len(posts)),
		ConflictingPosts: posts,
		Details:          &Details{WindowMinutes: snap.Int(settings.KeyTimeConflictWindowMin)},
	}, nil
}

// mediaReuseRule flags non-archived posts that used any of the candidate's
// media assets within the configured number of days on either side.
type mediaReuseRule struct {
	q Querier
}

func (r *mediaReuseRule) Name() string { return string(TypeMediaReuse) }

func (r *mediaReuseRule) Evaluate(ctx context.Context, c Candidate, snap settings.Snapshot) (*Warning, error) {
	if c.ScheduledAt == nil || len(c.MediaIDs) == 0 {
		return nil, nil
	}

	minDays := snap.Int(settings.KeyMinDaysBeforeReuse)
	span := time.Duration(minDays) * 24 * time.Hour
	from := c.ScheduledAt.Add(-span)
	to := c.ScheduledAt.Add(span)

	posts, err := r.q.PostsUsingMedia(ctx, c.MediaIDs, from, to, c.PostID)
	if err != nil {
		return nil, err
	}
	posts = dedupePosts(posts)
	if len(posts) == 0 {
		return nil, nil
	}

	return &Warning{
		Type:             TypeMediaReuse,
		Severity:         SeverityWarning,
		Message:          fmt.Sprintf("Media reuse detected: %d asset(s) used within %d days", len(posts), minDays),
		ConflictingPosts: posts,
		Details:          &Details{MinDays: minDays},
	}, nil
}

// batchReuseRule is mediaReuseRule for batch membership.
type batchReuseRule struct {
	q Querier
}

func (r *batchReuseRule) Name() string { return string(TypeBatchReuse) }

func (r *batchReuseRule) Evaluate(ctx context.Context, c Candidate, snap settings.Snapshot) (*Warning, error) {
	if c.ScheduledAt == nil || len(c.BatchIDs) == 0 {
		return nil, nil
	}

	minDays := snap.Int(settings.KeyMinDaysBeforeReuse)
	span := time.Duration(minDays) * 24 * time.Hour
	from := c.ScheduledAt.Add(-span)
	to := c.ScheduledAt.Add(span)

	posts, err := r.q.PostsUsingBatches(ctx, c.BatchIDs, from, to, c.PostID)
	if err != nil {
		return nil, err
	}
	posts = dedupePosts(posts)
	if len(posts) == 0 {
		return nil, nil
	}

	return &Warning{
		Type:             TypeBatchReuse,
		Severity:         SeverityWarning,
		Message:          fmt.Sprintf("Batch reuse detected: %d batch(es) used within %d days", len(posts), minDays),
		ConflictingPosts: posts,
		Details:          &Details{MinDays: minDays},
	}, nil
}

// crossAccountSameDayRule flags posts on other accounts that use any of the
// candidate's media on the same calendar day. The day boundary follows the
// configured timezone, not the server's.
type crossAccountSameDayRule struct {
	q Querier
}

func (r *crossAccountSameDayRule) Name() string { return string(TypeCrossAccountSameDay) }

func (r *crossAccountSameDayRule) Evaluate(ctx context.Context, c Candidate, snap settings.Snapshot) (*Warning, error) {
	// Without an account the "other account" comparison is meaningless; a
	// partially-filled draft skips the rule rather than matching everything.
	if c.AccountID == 0 || !snap.Bool(settings.KeyWarnSameDayCrossAccount) || c.ScheduledAt == nil || len(c.MediaIDs) == 0 {
		return nil, nil
	}

	loc := snap.Location()
	local := c.ScheduledAt.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	posts, err := r.q.PostsSharingMediaAcrossAccounts(ctx, c.MediaIDs, c.AccountID, dayStart, dayEnd, c.PostID)
	if err != nil {
		return nil, err
	}
	posts = dedupePosts(posts)
	if len(posts) == 0 {
		return nil, nil
	}

	return &Warning{
		Type:             TypeCrossAccountSameDay,
		Severity:         SeverityWarning,
		Message:          "Cross-account conflict: Same media appears on another account on the same day",
		ConflictingPosts: posts,
	}, nil
}

// dedupePosts collapses duplicate rows a post may produce when it matches
// through more than one media asset or batch.
func dedupePosts(posts []model.PostSummary) []model.PostSummary {
	if len(posts) < 2 {
		return posts
	}
	seen := make(map[int64]struct{}, len(posts))
	out := posts[:0]
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
