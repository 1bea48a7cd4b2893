package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

// FileRepository persists and reads stored-file state.
type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error
	GetByID(ctx context.Context, id string) (*domain.StoredFile, error)
	GetOwned(ctx context.Context, id, ownerID string) (*domain.StoredFile, error)
	// ClaimProcessing atomically moves the file into the processing status.
	// It returns domain.ErrAlreadyProcessing when another worker holds it.
	ClaimProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, errMessage string) error
}

// ResultStore persists analysis output keyed by file.
type ResultStore interface {
	Save(ctx context.Context, fileID, resultType string, data domain.AnalysisResult, metadata map[string]any) (string, error)
	GetLatestByFile(ctx context.Context, fileID string) (*domain.StoredResult, error)
}

// ObjectStorage stores source files. Save overwrites on key conflict.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Path(key string) string
}

// TaskQueue routes processing tasks into priority lanes.
type TaskQueue interface {
	Publish(ctx context.Context, msg domain.TaskMessage) error
	// PublishDelayed reschedules a retry into the same lane after delay.
	PublishDelayed(ctx context.Context, msg domain.TaskMessage, delay time.Duration) error
	Subscribe(ctx context.Context, handler func(context.Context, domain.TaskMessage) error) error
}

// OCREngine is the optical-character-recognition capability. Implementations
// are loaded once and safe for concurrent use.
type OCREngine interface {
	RecognizeImage(ctx context.Context, png []byte, langHint string) (string, error)
	RecognizePDFPage(ctx context.Context, raw []byte, page int, langHint string) (string, error)
}

// EntityRecognizer annotates text with named entities and POS-tagged tokens.
type EntityRecognizer interface {
	Annotate(ctx context.Context, text, language string) (domain.Annotation, error)
}

// TextExtractor turns a stored file into raw text for the selected pipeline.
type TextExtractor interface {
	Extract(ctx context.Context, pipeline domain.Pipeline, path string) (string, error)
}

// TextAnalyzer derives language, entities, sentiment and keywords from text.
// It degrades instead of failing: missing capabilities yield empty fields.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) domain.AnalysisResult
}

// Notifier dispatches a terminal-state notification. Best effort: failures
// are logged by implementations, never propagated.
type Notifier interface {
	Notify(ctx context.Context, ownerID, fileID string, success bool)
}
