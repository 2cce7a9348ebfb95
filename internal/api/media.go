package api

import (
	"errors"
	"net/http"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

// maxImportBytes bounds a single import request (files included).
const maxImportBytes = 512 << 20

// ImportMedia accepts a multipart form with one or more files under the
// "files" field and imports each into the library.
func (h *Handler) ImportMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Request must be multipart/form-data")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "At least one file is required")
		return
	}

	assets := []model.MediaAsset{}
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "FILE_READ_ERROR", err.Error())
			return
		}

		asset, err := h.mediaSvc.Import(r.Context(), header.Filename, f)
		f.Close()
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "IMPORT_ERROR", err.Error())
			return
		}
		assets = append(assets, *asset)
	}

	h.writeJSON(w, http.StatusCreated, assets)
}

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := h.mediaSvc.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "LIST_MEDIA_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	asset, err := h.mediaSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media asset not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "GET_MEDIA_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, asset)
}

func (h *Handler) GetMediaUsage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	usage, err := h.mediaSvc.Usage(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "MEDIA_USAGE_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, usage)
}

func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be an integer")
		return
	}

	if err := h.mediaSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media asset not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "DELETE_MEDIA_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
