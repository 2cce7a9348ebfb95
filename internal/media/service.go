// Package media manages the asset library: importing files into the uploads
// directory and tracking where each asset is used.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/model"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
)

// mimeTypes maps file extensions to MIME types for the formats the library
// accepts.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

// Recorder counts successful imports.
type Recorder interface {
	RecordMediaImport(ctx context.Context)
}

// Service imports media files and manages the asset library.
type Service struct {
	repo       *repository.MediaRepository
	uploadsDir string
	recorder   Recorder
	logger     *zap.SugaredLogger
}

func NewService(repo *repository.MediaRepository, uploadsDir string, recorder Recorder, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:       repo,
		uploadsDir: uploadsDir,
		recorder:   recorder,
		logger:     logger,
	}
}

// Import copies an uploaded file into the uploads directory under a
// collision-proof name and records it as a media asset.
func (s *Service) Import(ctx context.Context, fileName string, r io.Reader) (*model.MediaAsset, error) {
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	storedName := fmt.Sprintf("%s_%s%s", stem, uuid.NewString(), ext)
	storedPath := filepath.Join(s.uploadsDir, storedName)

	f, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	asset := &model.MediaAsset{
		FilePath: storedPath,
		FileName: storedName,
		FileSize: size,
		MimeType: mimeTypeFor(storedName),
	}

	id, err := s.repo.Create(ctx, asset)
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	s.recorder.RecordMediaImport(ctx)
	s.logger.Infow("Imported media asset", "id", id, "file_name", storedName, "size", size)
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.MediaAsset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.MediaAsset, error) {
	return s.repo.List(ctx)
}

// Delete removes the asset record. The file on disk is left in place; the
// uploads directory is treated as an archive.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Usage(ctx context.Context, id int64) (*model.MediaUsage, error) {
	return s.repo.Usage(ctx, id)
}

func mimeTypeFor(fileName string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mt
	}
	return "application/octet-stream"
}
