package conflict

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
)

// Candidate is the post being evaluated. PostID is nil for a post that has
// not been saved yet; when set, the post excludes itself from every rule.
type Candidate struct {
	PostID      *int64     `json:"id,omitempty"`
	AccountID   int64      `json:"accountId"`
	PlatformID  int64      `json:"platformId"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	MediaIDs    []int64    `json:"mediaIds,omitempty"`
	BatchIDs    []int64    `json:"batchIds,omitempty"`
}

// Querier answers the candidate-shaped questions the rules ask of storage.
// Time ranges are inclusive on both ends except for PostsSharingMediaAcross-
// Accounts, where to is exclusive (a calendar-day upper bound).
type Querier interface {
	// PostsInWindow returns draft and scheduled posts on the platform whose
	// scheduled_at falls within [from, to].
	PostsInWindow(ctx context.Context, platformID int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error)

	// PostsUsingMedia returns non-archived posts attached to any of the
	// media assets whose scheduled_at or posted_at falls within [from, to].
	PostsUsingMedia(ctx context.Context, mediaIDs []int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error)

	// PostsUsingBatches is PostsUsingMedia for batch membership.
	PostsUsingBatches(ctx context.Context, batchIDs []int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error)

	// PostsSharingMediaAcrossAccounts returns non-archived posts on other
	// accounts attached to any of the media assets whose scheduled_at or
	// posted_at falls within [from, to).
	PostsSharingMediaAcrossAccounts(ctx context.Context, mediaIDs []int64, accountID int64, from, to time.Time, excludeID *int64) ([]model.PostSummary, error)
}

// SettingsSource provides the settings snapshot a check runs under.
type SettingsSource interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

// Recorder receives per-check metrics. Implementations must be cheap; it is
// called on every check.
type Recorder interface {
	ConflictCheck(ctx context.Context)
	ConflictWarning(ctx context.Context, warningType string)
}

// Rule evaluates one conflict category against a candidate. A rule that does
// not apply (toggle off, required input missing) returns (nil, nil).
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, c Candidate, snap settings.Snapshot) (*Warning, error)
}

// Engine runs all rules against a candidate in a fixed order. Settings are
// re-read from the source on every check so config changes apply immediately.
type Engine struct {
	settings SettingsSource
	rules    []Rule
	logger   *zap.SugaredLogger
	recorder Recorder
}

// NewEngine creates an engine with the standard ruleset. recorder may be nil.
func NewEngine(q Querier, src SettingsSource, logger *zap.SugaredLogger, recorder Recorder) *Engine {
	return &Engine{
		settings: src,
		rules: []Rule{
			&timeConflictRule{q: q},
			&mediaReuseRule{q: q},
			&batchReuseRule{q: q},
			&crossAccountSameDayRule{q: q},
		},
		logger:   logger,
		recorder: recorder,
	}
}

// CheckConflicts evaluates every rule and returns the warnings raised. It
// returns an empty slice, never nil, when the candidate is clean. A storage
// or settings failure aborts the check.
func (e *Engine) CheckConflicts(ctx context.Context, c Candidate) ([]Warning, error) {
	snap, err := e.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if e.recorder != nil {
		e.recorder.ConflictCheck(ctx)
	}

	warnings := make([]Warning, 0, len(e.rules))
	for _, rule := range e.rules {
		w, err := rule.Evaluate(ctx, c, snap)
		if err != nil {
			return nil, fmt.Errorf("conflict rule %s failed: %w", rule.Name(), err)
		}
		if w == nil {
			continue
		}
		warnings = append(warnings, *w)
		if e.recorder != nil {
			e.recorder.ConflictWarning(ctx, string(w.Type))
		}
	}

	if e.logger != nil && len(warnings) > 0 {
		e.logger.Debugw("Conflict check raised warnings",
			"account_id", c.AccountID,
			"platform_id", c.PlatformID,
			"warnings", len(warnings),
		)
	}
	return warnings, nil
}
