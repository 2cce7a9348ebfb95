package api

import (
	"github.com/LeSteak11/social-media-content-organizer/internal/conflict"
	"github.com/LeSteak11/social-media-content-organizer/internal/model"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createPostRequest struct {
	AccountID   int64   `json:"accountId"`
	PlatformID  int64   `json:"platformId"`
	Status      string  `json:"status"`
	Caption     string  `json:"caption"`
	ScheduledAt *string `json:"scheduledAt"`
	Notes       string  `json:"notes"`
	MediaIDs    []int64 `json:"mediaIds"`
	BatchIDs    []int64 `json:"batchIds"`
}

// postResponse pairs a saved post with the advisory warnings its save
// raised.
type postResponse struct {
	Post     *model.PostDetails `json:"post"`
	Warnings []conflict.Warning `json:"warnings"`
}

type createBatchRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateBatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

type batchMediaRequest struct {
	MediaIDs []int64 `json:"mediaIds"`
}

type configUpdateRequest struct {
	Value string `json:"value"`
}

// exportResponse is a full snapshot of the organizer's data, used for
// backups and migrating between machines.
type exportResponse struct {
	Accounts   []model.Account        `json:"accounts"`
	Platforms  []model.Platform       `json:"platforms"`
	Media      []model.MediaAsset     `json:"media"`
	Batches    []model.BatchSummary   `json:"batches"`
	BatchMedia []model.BatchMediaLink `json:"batchMedia"`
	Posts      []model.PostSummary    `json:"posts"`
	PostMedia  []model.PostMediaLink  `json:"postMedia"`
	PostBatch  []model.PostBatchLink  `json:"postBatches"`
	Config     map[string]string      `json:"config"`
	ExportedAt string                 `json:"exportedAt"`
}
