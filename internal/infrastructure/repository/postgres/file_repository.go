package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS stored_files (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	extension TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	status TEXT NOT NULL,
	processed BOOLEAN NOT NULL DEFAULT FALSE,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stored_files_owner ON stored_files(owner_id);
CREATE INDEX IF NOT EXISTS idx_stored_files_status ON stored_files(status);

CREATE TABLE IF NOT EXISTS analysis_results (
	id TEXT PRIMARY KEY,
	file_id TEXT NOT NULL REFERENCES stored_files(id) ON DELETE CASCADE,
	result_type TEXT NOT NULL,
	data JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_results_file ON analysis_results(file_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO stored_files (
	id, owner_id, filename, storage_path, extension, size_bytes, status, processed, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		file.ID, file.OwnerID, file.Filename, file.StoragePath, file.Extension, file.SizeBytes,
		string(file.Status), file.Processed, file.Error, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stored file: %w", err)
	}
	return nil
}

const selectFileColumns = `
SELECT id, owner_id, filename, storage_path, extension, size_bytes, status, processed, error_message, created_at, updated_at
FROM stored_files
`

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.StoredFile, error) {
	row := r.db.QueryRowContext(ctx, selectFileColumns+`WHERE id = $1`, id)
	return scanFile(row, id)
}

func (r *FileRepository) GetOwned(ctx context.Context, id, ownerID string) (*domain.StoredFile, error) {
	row := r.db.QueryRowContext(ctx, selectFileColumns+`WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanFile(row, id)
}

func scanFile(row *sql.Row, id string) (*domain.StoredFile, error) {
	var file domain.StoredFile
	var status string
	var errMessage sql.NullString

	err := row.Scan(
		&file.ID, &file.OwnerID, &file.Filename, &file.StoragePath, &file.Extension, &file.SizeBytes,
		&status, &file.Processed, &errMessage, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get stored file", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan stored file: %w", err)
	}

	file.Status = domain.FileStatus(status)
	file.Error = errMessage.String
	return &file, nil
}

// ClaimProcessing moves the file into processing. Completed files cannot
// re-enter; retry re-entries from processing or failed are allowed, so the
// guard enforces the forward-only lifecycle without blocking rescheduling.
func (r *FileRepository) ClaimProcessing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE stored_files
SET status = $2, error_message = '', updated_at = $3
WHERE id = $1 AND status IN ('pending', 'processing', 'failed')
`, id, string(domain.StatusProcessing), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claim processing: %w", err)
	}
	return requireRow(res, id)
}

func (r *FileRepository) MarkCompleted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE stored_files
SET status = $2, processed = TRUE, error_message = '', updated_at = $3
WHERE id = $1 AND status = 'processing'
`, id, string(domain.StatusCompleted), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return requireRow(res, id)
}

func (r *FileRepository) MarkFailed(ctx context.Context, id, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE stored_files
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1 AND status <> 'completed'
`, id, string(domain.StatusFailed), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update stored file", fmt.Errorf("id %s", id))
	}
	return nil
}
