package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func TestStateReflectsFileStatus(t *testing.T) {
	file := testFile()
	file.Status = domain.StatusCompleted
	file.Processed = true
	uc := NewReadFileUseCase(&fileRepoFake{file: file}, &resultStoreFake{})

	state, err := uc.State(context.Background(), "file-1", "owner-1")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if !state.Processed || state.Status != "completed" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestLatestResultChecksOwnershipFirst(t *testing.T) {
	repo := &fileRepoFake{getErr: domain.WrapError(domain.ErrNotFound, "get file", errors.New("no row"))}
	results := &resultStoreFake{latest: &domain.StoredResult{ID: "result-1"}}
	uc := NewReadFileUseCase(repo, results)

	_, err := uc.LatestResult(context.Background(), "file-1", "intruder")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign files, got %v", err)
	}
}

func TestLatestResultReturnsStoredResult(t *testing.T) {
	results := &resultStoreFake{latest: &domain.StoredResult{ID: "result-1", FileID: "file-1", ResultType: "ner"}}
	uc := NewReadFileUseCase(&fileRepoFake{file: testFile()}, results)

	result, err := uc.LatestResult(context.Background(), "file-1", "owner-1")
	if err != nil {
		t.Fatalf("LatestResult() error = %v", err)
	}
	if result.ID != "result-1" || result.ResultType != "ner" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLatestResultMissing(t *testing.T) {
	uc := NewReadFileUseCase(&fileRepoFake{file: testFile()}, &resultStoreFake{})

	_, err := uc.LatestResult(context.Background(), "file-1", "owner-1")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when nothing was analyzed yet, got %v", err)
	}
}
