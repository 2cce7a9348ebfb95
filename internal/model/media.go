package model

import "time"

// MediaAsset is an imported image or video file in the library.
type MediaAsset struct {
	ID         int64     `json:"id" db:"id"`
	FilePath   string    `json:"file_path" db:"file_path"`
	FileName   string    `json:"file_name" db:"file_name"`
	FileSize   int64     `json:"file_size" db:"file_size"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	Width      *int      `json:"width,omitempty" db:"width"`
	Height     *int      `json:"height,omitempty" db:"height"`
	ImportedAt time.Time `json:"imported_at" db:"imported_at"`
	Notes      string    `json:"notes" db:"notes"`
}

// MediaUsage lists everywhere a media asset is referenced.
type MediaUsage struct {
	Batches []Batch       `json:"batches"`
	Posts   []PostSummary `json:"posts"`
}
