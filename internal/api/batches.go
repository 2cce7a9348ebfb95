package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "name is required")
		return
	}

	details, err := h.batchSvc.Create(r.Context(), req.Name, req.Description, req.Tags)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "CREATE_BATCH_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, details)
}

func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.batchSvc.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "LIST_BATCHES_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, batches)
}

func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	details, err := h.batchSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "BATCH_NOT_FOUND", "Batch not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "GET_BATCH_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	var req updateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	details, err := h.batchSvc.Update(r.Context(), id, repository.BatchUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "BATCH_NOT_FOUND", "Batch not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "UPDATE_BATCH_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	if err := h.batchSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "BATCH_NOT_FOUND", "Batch not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "DELETE_BATCH_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) AddBatchMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	var req batchMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if len(req.MediaIDs) == 0 {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "mediaIds is required")
		return
	}

	details, err := h.batchSvc.AddMedia(r.Context(), id, req.MediaIDs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "BATCH_NOT_FOUND", "Batch not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "BATCH_MEDIA_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) RemoveBatchMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}
	mediaID, err := idParam(r, "mediaId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "mediaId must be an integer")
		return
	}

	if err := h.batchSvc.RemoveMedia(r.Context(), id, mediaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "BATCH_MEDIA_NOT_FOUND", "Media is not in this batch")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "BATCH_MEDIA_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetBatchUsage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	posts, err := h.batchSvc.Usage(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "BATCH_USAGE_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, posts)
}
