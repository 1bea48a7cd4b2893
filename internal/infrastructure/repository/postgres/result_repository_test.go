package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func TestResultRepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResultRepository(db)
	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs(sqlmock.AnyArg(), "f-1", "ner", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Save(context.Background(), "f-1", "ner",
		domain.AnalysisResult{Text: "hello", Language: "en"}, nil)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatalf("expected a generated result id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResultRepositoryGetLatestByFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResultRepository(db)
	rows := sqlmock.NewRows([]string{"id", "file_id", "result_type", "data", "metadata", "created_at"}).
		AddRow("r-2", "f-1", "ocr",
			[]byte(`{"text":"scanned","language":"ru","entities":[],"keywords":[],"dates":[],"money_amounts":[]}`),
			[]byte(`{"pipeline":"image_ocr","attempt":1}`),
			time.Now())

	mock.ExpectQuery("FROM analysis_results").
		WithArgs("f-1").
		WillReturnRows(rows)

	result, err := repo.GetLatestByFile(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("GetLatestByFile() error = %v", err)
	}
	if result.ID != "r-2" || result.ResultType != "ocr" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Data.Language != "ru" {
		t.Fatalf("expected decoded analysis data, got %+v", result.Data)
	}
	if result.Metadata["pipeline"] != "image_ocr" {
		t.Fatalf("expected decoded metadata, got %+v", result.Metadata)
	}
}

func TestResultRepositoryGetLatestByFileMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResultRepository(db)
	mock.ExpectQuery("FROM analysis_results").
		WithArgs("f-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_id", "result_type", "data", "metadata", "created_at"}))

	_, err = repo.GetLatestByFile(context.Background(), "f-1")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
