// Package conflict implements advisory conflict detection for scheduled
// posts. Detection never blocks a save; it returns warnings the caller can
// surface or ignore.
package conflict

import (
	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

// Type identifies which rule produced a warning.
type Type string

const (
	TypeTimeConflict        Type = "time_conflict"
	TypeMediaReuse          Type = "media_reuse"
	TypeBatchReuse          Type = "batch_reuse"
	TypeCrossAccountSameDay Type = "cross_account_same_day"
)

// Severity grades how strongly a warning should be surfaced.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Details carries the rule parameters that were in effect when the warning
// was produced.
type Details struct {
	MinDays       int `json:"minDays,omitempty"`
	WindowMinutes int `json:"windowMinutes,omitempty"`
}

// Warning describes one detected conflict and the posts involved.
type Warning struct {
	Type             Type                `json:"type"`
	Severity         Severity            `json:"severity"`
	Message          string              `json:"message"`
	ConflictingPosts []model.PostSummary `json:"conflictingPosts,omitempty"`
	Details          *Details            `json:"details,omitempty"`
}
