package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LeSteak11/social-media-content-organizer/internal/conflict"
	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/post"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.AccountID == 0 || req.PlatformID == 0 {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "accountId and platformId are required")
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_TIMESTAMP", "scheduledAt must be RFC 3339")
			return
		}
		scheduledAt = &t
	}

	details, warnings, err := h.postSvc.Create(r.Context(), post.CreateInput{
		AccountID:   req.AccountID,
		PlatformID:  req.PlatformID,
		Status:      model.PostStatus(req.Status),
		Caption:     req.Caption,
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
		MediaIDs:    req.MediaIDs,
		BatchIDs:    req.BatchIDs,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "CREATE_POST_ERROR", err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, postResponse{Post: details, Warnings: warnings})
}

// ListPosts serves three query shapes: a date range (startDate and endDate),
// a text search (search), or everything.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if start, end := q.Get("startDate"), q.Get("endDate"); start != "" && end != "" {
		from, err := time.Parse(time.RFC3339, start)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_TIMESTAMP", "startDate must be RFC 3339")
			return
		}
		to, err := time.Parse(time.RFC3339, end)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_TIMESTAMP", "endDate must be RFC 3339")
			return
		}
		posts, err := h.postSvc.ListByDateRange(r.Context(), from, to)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "LIST_POSTS_ERROR", err.Error())
			return
		}
		h.writeJSON(w, http.StatusOK, posts)
		return
	}

	if term := q.Get("search"); term != "" {
		posts, err := h.postSvc.Search(r.Context(), term)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "SEARCH_POSTS_ERROR", err.Error())
			return
		}
		h.writeJSON(w, http.StatusOK, posts)
		return
	}

	posts, err := h.postSvc.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "LIST_POSTS_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	details, err := h.postSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "GET_POST_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	in, err := decodePostUpdate(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	details, warnings, err := h.postSvc.Update(r.Context(), id, *in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
			return
		}
		h.writeError(w, http.StatusBadRequest, "UPDATE_POST_ERROR", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, postResponse{Post: details, Warnings: warnings})
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	if err := h.postSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "DELETE_POST_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CheckConflicts evaluates a candidate post without saving it.
func (h *Handler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var candidate conflict.Candidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if candidate.AccountID == 0 || candidate.PlatformID == 0 {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "accountId and platformId are required")
		return
	}

	warnings, err := h.postSvc.CheckConflicts(r.Context(), candidate)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "CONFLICT_CHECK_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, warnings)
}

// decodePostUpdate parses a partial post update. Presence matters: a key set
// to null clears the field where that is meaningful (the timestamps), so the
// body is inspected key by key.
func decodePostUpdate(r *http.Request) (*post.UpdateInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}

	in := &post.UpdateInput{}

	if v, ok := raw["status"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("status must be a string")
		}
		status := model.PostStatus(s)
		in.Status = &status
	}
	if v, ok := raw["caption"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("caption must be a string")
		}
		in.Caption = &s
	}
	if v, ok := raw["notes"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("notes must be a string")
		}
		in.Notes = &s
	}
	if v, ok := raw["postUrl"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("postUrl must be a string")
		}
		in.PostURL = &s
	}
	if v, ok := raw["postExternalId"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("postExternalId must be a string")
		}
		in.ExternalID = &s
	}

	var err error
	in.ScheduledAt, in.ClearScheduledAt, err = parseNullableTime(raw, "scheduledAt")
	if err != nil {
		return nil, err
	}
	in.PostedAt, in.ClearPostedAt, err = parseNullableTime(raw, "postedAt")
	if err != nil {
		return nil, err
	}

	if v, ok := raw["mediaIds"]; ok {
		ids := []int64{}
		if err := json.Unmarshal(v, &ids); err != nil {
			return nil, fmt.Errorf("mediaIds must be an array of integers")
		}
		in.MediaIDs = ids
	}
	if v, ok := raw["batchIds"]; ok {
		ids := []int64{}
		if err := json.Unmarshal(v, &ids); err != nil {
			return nil, fmt.Errorf("batchIds must be an array of integers")
		}
		in.BatchIDs = ids
	}

	return in, nil
}

func parseNullableTime(raw map[string]json.RawMessage, key string) (*time.Time, bool, error) {
	v, ok := raw[key]
	if !ok {
		return nil, false, nil
	}
	if string(v) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, false, fmt.Errorf("%s must be an RFC 3339 string or null", key)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, fmt.Errorf("%s must be RFC 3339", key)
	}
	return &t, false, nil
}
