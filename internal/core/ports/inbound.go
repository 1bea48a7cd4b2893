package ports

import (
	"context"
	"io"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

// FileIngestor is the inbound contract for file upload.
type FileIngestor interface {
	Upload(ctx context.Context, ownerID, filename string, size int64, body io.Reader) (*domain.StoredFile, error)
}

// FileSubmitter validates a stored file and enqueues it for processing.
type FileSubmitter interface {
	Submit(ctx context.Context, fileID, ownerID string) (domain.TaskHandle, error)
}

// FileProcessor executes one processing task off the request path.
type FileProcessor interface {
	Execute(ctx context.Context, msg domain.TaskMessage) error
}

// FileReader is the inbound read model for file state and results.
type FileReader interface {
	GetOwned(ctx context.Context, id, ownerID string) (*domain.StoredFile, error)
	State(ctx context.Context, id, ownerID string) (domain.FileState, error)
	LatestResult(ctx context.Context, id, ownerID string) (*domain.StoredResult, error)
}

// InlineInspector is the synchronous service variant: it processes an upload
// in-request and returns the analysis without persisting anything.
type InlineInspector interface {
	Inspect(ctx context.Context, filename string, content []byte) (domain.InspectReport, error)
}
