package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func newMock(t *testing.T) (*FileRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewFileRepository(db), mock, func() { db.Close() }
}

func fileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "filename", "storage_path", "extension", "size_bytes",
		"status", "processed", "error_message", "created_at", "updated_at",
	})
}

func TestFileRepositoryCreate(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	file := &domain.StoredFile{
		ID:          "f-1",
		OwnerID:     "u-1",
		Filename:    "scan.png",
		StoragePath: "f-1_scan.png",
		Extension:   ".png",
		SizeBytes:   512,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO stored_files").
		WithArgs("f-1", "u-1", "scan.png", "f-1_scan.png", ".png", int64(512),
			"pending", false, "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), file); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFileRepositoryGetOwned(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery("FROM stored_files").
		WithArgs("f-1", "u-1").
		WillReturnRows(fileRows().AddRow(
			"f-1", "u-1", "scan.png", "f-1_scan.png", ".png", int64(512),
			"completed", true, nil, now, now,
		))

	file, err := repo.GetOwned(context.Background(), "f-1", "u-1")
	if err != nil {
		t.Fatalf("GetOwned() error = %v", err)
	}
	if file.Status != domain.StatusCompleted || !file.Processed {
		t.Fatalf("unexpected file: %+v", file)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFileRepositoryGetOwnedNotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("FROM stored_files").
		WithArgs("f-1", "intruder").
		WillReturnRows(fileRows())

	_, err := repo.GetOwned(context.Background(), "f-1", "intruder")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileRepositoryClaimProcessing(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE stored_files").
		WithArgs("f-1", "processing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClaimProcessing(context.Background(), "f-1"); err != nil {
		t.Fatalf("ClaimProcessing() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFileRepositoryClaimProcessingCompletedFile(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE stored_files").
		WithArgs("f-1", "processing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClaimProcessing(context.Background(), "f-1")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when the guard rejects, got %v", err)
	}
}

func TestFileRepositoryMarkCompletedRequiresProcessing(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE stored_files").
		WithArgs("f-1", "completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "f-1")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound outside processing, got %v", err)
	}
}

func TestFileRepositoryMarkFailed(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE stored_files").
		WithArgs("f-1", "failed", "ocr recognized no text", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "f-1", "ocr recognized no text"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
