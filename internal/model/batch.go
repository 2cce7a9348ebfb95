package model

import "time"

// Batch is a curated grouping of media assets, typically one shoot or set.
type Batch struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Tags        string    `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// BatchSummary is a batch with its media count, for listings.
type BatchSummary struct {
	Batch
	MediaCount int `json:"media_count"`
}

// BatchDetails is a batch with its ordered media attached.
type BatchDetails struct {
	Batch
	Media []MediaAsset `json:"media"`
}
