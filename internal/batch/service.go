// Package batch manages curated media groupings (shoots, sets).
package batch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

// Service wraps the batch repository with input shaping.
type Service struct {
	repo   *repository.BatchRepository
	logger *zap.SugaredLogger
}

func NewService(repo *repository.BatchRepository, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create stores a batch. Tags are kept as a comma-joined string, matching
// how they are filtered and exported.
func (s *Service) Create(ctx context.Context, name, description string, tags []string) (*model.BatchDetails, error) {
	id, err := s.repo.Create(ctx, name, description, strings.Join(tags, ","))
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.BatchSummary, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.BatchDetails, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, updates repository.BatchUpdate) (*model.BatchDetails, error) {
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddMedia(ctx context.Context, batchID int64, mediaIDs []int64) (*model.BatchDetails, error) {
	if err := s.repo.AddMedia(ctx, batchID, mediaIDs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, batchID)
}

func (s *Service) RemoveMedia(ctx context.Context, batchID, mediaID int64) error {
	return s.repo.RemoveMedia(ctx, batchID, mediaID)
}

func (s *Service) Usage(ctx context.Context, batchID int64) ([]model.PostSummary, error) {
	return s.repo.Usage(ctx, batchID)
}
