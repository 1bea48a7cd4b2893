package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

type IngestFileUseCase struct {
	files   ports.FileRepository
	storage ports.ObjectStorage
	router  *Router
}

func NewIngestFileUseCase(files ports.FileRepository, storage ports.ObjectStorage, router *Router) *IngestFileUseCase {
	return &IngestFileUseCase{
		files:   files,
		storage: storage,
		router:  router,
	}
}

// Upload validates the file against the routing rules, stores the bytes and
// records metadata with status pending. It does not enqueue processing.
func (uc *IngestFileUseCase) Upload(
	ctx context.Context,
	ownerID, filename string,
	size int64,
	body io.Reader,
) (*domain.StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, err := uc.router.Route(ext, size); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	file := &domain.StoredFile{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		StoragePath: storageKey,
		Extension:   ext,
		SizeBytes:   size,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("create file metadata: %w", err)
	}

	return file, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
