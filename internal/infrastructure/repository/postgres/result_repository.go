package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save appends a new analysis record for the file. History is kept; readers
// take the latest row, so the newest analysis always wins.
func (r *ResultRepository) Save(
	ctx context.Context,
	fileID, resultType string,
	data domain.AnalysisResult,
	metadata map[string]any,
) (string, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal analysis data: %w", err)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal analysis metadata: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
INSERT INTO analysis_results (id, file_id, result_type, data, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, id, fileID, resultType, dataJSON, metadataJSON, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert analysis result: %w", err)
	}
	return id, nil
}

func (r *ResultRepository) GetLatestByFile(ctx context.Context, fileID string) (*domain.StoredResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, file_id, result_type, data, metadata, created_at
FROM analysis_results
WHERE file_id = $1
ORDER BY created_at DESC
LIMIT 1
`, fileID)

	var result domain.StoredResult
	var dataRaw, metadataRaw []byte

	err := row.Scan(&result.ID, &result.FileID, &result.ResultType, &dataRaw, &metadataRaw, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis result", fmt.Errorf("file %s", fileID))
		}
		return nil, fmt.Errorf("scan analysis result: %w", err)
	}

	if err := json.Unmarshal(dataRaw, &result.Data); err != nil {
		return nil, fmt.Errorf("unmarshal analysis data: %w", err)
	}
	if err := json.Unmarshal(metadataRaw, &result.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal analysis metadata: %w", err)
	}
	return &result, nil
}
