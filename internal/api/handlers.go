package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/batch"
	"github.com/LeSteak11/social-media-content-organizer/internal/media"
	"github.com/LeSteak11/social-media-content-organizer/internal/post"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
)

// MetricsInterface defines the interface for metrics recording
type MetricsInterface interface {
	RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration)
}

// Pinger reports backend connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	postSvc     *post.Service
	mediaSvc    *media.Service
	batchSvc    *batch.Service
	accountRepo *repository.AccountRepository
	postRepo    *repository.PostRepository
	batchRepo   *repository.BatchRepository
	settingsSvc *settings.Service
	db          Pinger
	logger      *zap.SugaredLogger
	metrics     MetricsInterface
}

func NewHandler(
	postSvc *post.Service,
	mediaSvc *media.Service,
	batchSvc *batch.Service,
	accountRepo *repository.AccountRepository,
	postRepo *repository.PostRepository,
	batchRepo *repository.BatchRepository,
	settingsSvc *settings.Service,
	db Pinger,
	logger *zap.SugaredLogger,
	metrics MetricsInterface,
) *Handler {
	return &Handler{
		postSvc:     postSvc,
		mediaSvc:    mediaSvc,
		batchSvc:    batchSvc,
		accountRepo: accountRepo,
		postRepo:    postRepo,
		batchRepo:   batchRepo,
		settingsSvc: settingsSvc,
		db:          db,
		logger:      logger,
		metrics:     metrics,
	}
}

// Account and platform endpoints

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountRepo.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "ACCOUNTS_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.accountRepo.ListPlatforms(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "PLATFORMS_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, platforms)
}

// Config endpoints

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	snap, err := h.settingsSvc.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "CONFIG_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, snap.All())
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req configUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if err := h.settingsSvc.Set(r.Context(), key, req.Value); err != nil {
		if errors.Is(err, settings.ErrUnknownKey) {
			h.writeError(w, http.StatusNotFound, "UNKNOWN_KEY", err.Error())
			return
		}
		h.writeError(w, http.StatusBadRequest, "INVALID_VALUE", err.Error())
		return
	}

	snap, err := h.settingsSvc.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "CONFIG_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, snap.All())
}

// Export endpoint

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.accountRepo.ListAccounts(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	platforms, err := h.accountRepo.ListPlatforms(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	assets, err := h.mediaSvc.List(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	batches, err := h.batchSvc.List(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	batchMedia, err := h.batchRepo.MediaLinks(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	posts, err := h.postRepo.ListSummaries(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	postMedia, err := h.postRepo.MediaLinks(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	postBatches, err := h.postRepo.BatchLinks(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}
	snap, err := h.settingsSvc.Snapshot(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, exportResponse{
		Accounts:   accounts,
		Platforms:  platforms,
		Media:      assets,
		Batches:    batches,
		BatchMedia: batchMedia,
		Posts:      posts,
		PostMedia:  postMedia,
		PostBatch:  postBatches,
		Config:     snap.All(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Health endpoints

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

// Utility methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.logger.Errorw("API error", "code", code, "message", message, "status", status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := ErrorResponse{
		Code:    code,
		Message: message,
	}
	json.NewEncoder(w).Encode(err)
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
