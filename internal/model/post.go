package model

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPosted    PostStatus = "posted"
	// StatusArchived removes a post from all conflict consideration.
	StatusArchived PostStatus = "archived"
)

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPosted, StatusArchived:
		return true
	}
	return false
}

// Post represents a planned or published piece of content on one
// account/platform pair.
type Post struct {
	ID          int64      `json:"id" db:"id"`
	AccountID   int64      `json:"account_id" db:"account_id"`
	PlatformID  int64      `json:"platform_id" db:"platform_id"`
	Status      PostStatus `json:"status" db:"status"`
	Caption     string     `json:"caption" db:"caption"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	PostedAt    *time.Time `json:"posted_at,omitempty" db:"posted_at"`
	PostURL     string     `json:"post_url" db:"post_url"`
	ExternalID  string     `json:"post_external_id" db:"post_external_id"`
	Notes       string     `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PostSummary is a post decorated with the denormalized account and platform
// display names, as returned by joined repository queries. Conflict warnings
// carry these so the caller can render them without further lookups.
type PostSummary struct {
	Post
	AccountName  string `json:"account_name"`
	PlatformName string `json:"platform_name"`
}

// PostDetails is a PostSummary with its associated media and batches attached.
type PostDetails struct {
	PostSummary
	Media   []MediaAsset `json:"media"`
	Batches []Batch      `json:"batches"`
}
