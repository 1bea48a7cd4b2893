package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

// ReadFileUseCase serves the polling and result-retrieval contracts.
type ReadFileUseCase struct {
	files   ports.FileRepository
	results ports.ResultStore
}

func NewReadFileUseCase(files ports.FileRepository, results ports.ResultStore) *ReadFileUseCase {
	return &ReadFileUseCase{files: files, results: results}
}

func (uc *ReadFileUseCase) GetOwned(ctx context.Context, id, ownerID string) (*domain.StoredFile, error) {
	return uc.files.GetOwned(ctx, id, ownerID)
}

func (uc *ReadFileUseCase) State(ctx context.Context, id, ownerID string) (domain.FileState, error) {
	file, err := uc.files.GetOwned(ctx, id, ownerID)
	if err != nil {
		return domain.FileState{}, err
	}
	return domain.FileState{
		Processed: file.Processed,
		Status:    string(file.Status),
	}, nil
}

func (uc *ReadFileUseCase) LatestResult(ctx context.Context, id, ownerID string) (*domain.StoredResult, error) {
	if _, err := uc.files.GetOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}
	result, err := uc.results.GetLatestByFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load latest result: %w", err)
	}
	return result, nil
}
