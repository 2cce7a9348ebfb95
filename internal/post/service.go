// Package post implements the post lifecycle: drafting, scheduling, marking
// posted, and archiving, with advisory conflict checks on every mutation.
package post

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/conflict"
	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

// Service coordinates the post repository and the conflict engine. Conflict
// warnings are advisory: a save always goes through, warnings ride along in
// the response.
type Service struct {
	repo   *repository.PostRepository
	engine *conflict.Engine
	logger *zap.SugaredLogger
}

func NewService(repo *repository.PostRepository, engine *conflict.Engine, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

// CreateInput is the payload for a new post.
type CreateInput struct {
	AccountID   int64
	PlatformID  int64
	Status      model.PostStatus
	Caption     string
	ScheduledAt *time.Time
	Notes       string
	MediaIDs    []int64
	BatchIDs    []int64
}

// Create saves a post with its attachments, then runs a conflict check on
// the saved post. The post is returned even when warnings were raised.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.PostDetails, []conflict.Warning, error) {
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if !in.Status.Valid() {
		return nil, nil, fmt.Errorf("invalid post status %q", in.Status)
	}

	id, err := s.repo.Create(ctx, &model.Post{
		AccountID:   in.AccountID,
		PlatformID:  in.PlatformID,
		Status:      in.Status,
		Caption:     in.Caption,
		ScheduledAt: in.ScheduledAt,
		Notes:       in.Notes,
	}, in.MediaIDs, in.BatchIDs)
	if err != nil {
		return nil, nil, err
	}

	details, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := s.checkSaved(ctx, &details.PostSummary.Post, in.MediaIDs, in.BatchIDs)
	if err != nil {
		// The post is saved; a failed advisory check should not undo that.
		s.logger.Errorw("Conflict check after create failed", "post_id", id, "error", err)
		warnings = []conflict.Warning{}
	}

	return details, warnings, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.PostDetails, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.PostDetails, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.PostSummary, error) {
	return s.repo.ListByDateRange(ctx, from, to)
}

func (s *Service) Search(ctx context.Context, term string) ([]model.PostSummary, error) {
	return s.repo.Search(ctx, term)
}

// UpdateInput is a partial update. Nil fields are left unchanged; MediaIDs
// and BatchIDs, when non-nil, replace the post's attachments.
type UpdateInput struct {
	Status           *model.PostStatus
	Caption          *string
	ScheduledAt      *time.Time
	ClearScheduledAt bool
	PostedAt         *time.Time
	ClearPostedAt    bool
	PostURL          *string
	ExternalID       *string
	Notes            *string
	MediaIDs         []int64
	BatchIDs         []int64
}

// Update applies a partial update and re-runs the conflict check on the
// post's new state.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*model.PostDetails, []conflict.Warning, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, nil, fmt.Errorf("invalid post status %q", *in.Status)
	}

	err := s.repo.Update(ctx, id, repository.PostUpdate{
		Status:           in.Status,
		Caption:          in.Caption,
		ScheduledAt:      in.ScheduledAt,
		ClearScheduledAt: in.ClearScheduledAt,
		PostedAt:         in.PostedAt,
		ClearPostedAt:    in.ClearPostedAt,
		PostURL:          in.PostURL,
		ExternalID:       in.ExternalID,
		Notes:            in.Notes,
	})
	if err != nil {
		return nil, nil, err
	}

	if in.MediaIDs != nil {
		if err := s.repo.ReplaceMedia(ctx, id, in.MediaIDs); err != nil {
			return nil, nil, err
		}
	}
	if in.BatchIDs != nil {
		if err := s.repo.ReplaceBatches(ctx, id, in.BatchIDs); err != nil {
			return nil, nil, err
		}
	}

	details, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	mediaIDs, batchIDs, err := s.repo.AttachmentIDs(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := s.checkSaved(ctx, &details.PostSummary.Post, mediaIDs, batchIDs)
	if err != nil {
		s.logger.Errorw("Conflict check after update failed", "post_id", id, "error", err)
		warnings = []conflict.Warning{}
	}

	return details, warnings, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// CheckConflicts evaluates a candidate without saving anything. When the
// candidate names a saved post but omits attachments, the saved attachments
// are used.
func (s *Service) CheckConflicts(ctx context.Context, c conflict.Candidate) ([]conflict.Warning, error) {
	if c.PostID != nil && c.MediaIDs == nil && c.BatchIDs == nil {
		mediaIDs, batchIDs, err := s.repo.AttachmentIDs(ctx, *c.PostID)
		if err != nil {
			return nil, err
		}
		c.MediaIDs = mediaIDs
		c.BatchIDs = batchIDs
	}
	return s.engine.CheckConflicts(ctx, c)
}

func (s *Service) checkSaved(ctx context.Context, p *model.Post, mediaIDs, batchIDs []int64) ([]conflict.Warning, error) {
	id := p.ID
	return s.engine.CheckConflicts(ctx, conflict.Candidate{
		PostID:      &id,
		AccountID:   p.AccountID,
		PlatformID:  p.PlatformID,
		ScheduledAt: p.ScheduledAt,
		MediaIDs:    mediaIDs,
		BatchIDs:    batchIDs,
	})
}
