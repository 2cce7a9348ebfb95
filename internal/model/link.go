package model

// BatchMediaLink is one row of the batch_media join table.
type BatchMediaLink struct {
	BatchID   int64 `json:"batch_id" db:"batch_id"`
	MediaID   int64 `json:"media_id" db:"media_id"`
	SortOrder int   `json:"sort_order" db:"sort_order"`
}

// PostMediaLink is one row of the post_media join table.
type PostMediaLink struct {
	PostID    int64 `json:"post_id" db:"post_id"`
	MediaID   int64 `json:"media_id" db:"media_id"`
	SortOrder int   `json:"sort_order" db:"sort_order"`
}

// PostBatchLink is one row of the post_batches join table.
type PostBatchLink struct {
	PostID  int64 `json:"post_id" db:"post_id"`
	BatchID int64 `json:"batch_id" db:"batch_id"`
}
