package usecase

import (
	"testing"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

func TestRouteDispatch(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name string
		ext  string
		want domain.Pipeline
	}{
		{name: "png image", ext: ".png", want: domain.PipelineImageOCR},
		{name: "jpeg image", ext: ".jpeg", want: domain.PipelineImageOCR},
		{name: "tiff image", ext: ".tiff", want: domain.PipelineImageOCR},
		{name: "bmp image", ext: ".bmp", want: domain.PipelineImageOCR},
		{name: "pdf", ext: ".pdf", want: domain.PipelinePDFOCR},
		{name: "docx", ext: ".docx", want: domain.PipelineDocx},
		{name: "xlsx", ext: ".xlsx", want: domain.PipelineSpreadsheet},
		{name: "txt", ext: ".txt", want: domain.PipelinePlainText},
		{name: "csv", ext: ".csv", want: domain.PipelinePlainText},
		{name: "uppercase extension", ext: ".PDF", want: domain.PipelinePDFOCR},
		{name: "padded extension", ext: " .txt ", want: domain.PipelinePlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := router.Route(tt.ext, 1024)
			if err != nil {
				t.Fatalf("Route(%q) error = %v", tt.ext, err)
			}
			if got != tt.want {
				t.Fatalf("Route(%q) = %s, want %s", tt.ext, got, tt.want)
			}
		})
	}
}

func TestRouteUnsupportedExtension(t *testing.T) {
	router := testRouter()

	for _, ext := range []string{".exe", ".mp4", ".doc", ""} {
		if _, err := router.Route(ext, 1024); !domain.IsKind(err, domain.ErrUnsupportedType) {
			t.Fatalf("Route(%q) error = %v, want ErrUnsupportedType", ext, err)
		}
	}
}

func TestRouteSizeLimitPrecedesTypeCheck(t *testing.T) {
	router := testRouter()

	_, err := router.Route(".exe", 11*1024*1024)
	if !domain.IsKind(err, domain.ErrFileTooLarge) {
		t.Fatalf("oversized file must be rejected by size first, got %v", err)
	}

	if _, err := router.Route(".pdf", 10*1024*1024); err != nil {
		t.Fatalf("file at the exact limit must pass, got %v", err)
	}
}

func TestQueueForThreshold(t *testing.T) {
	router := testRouter()
	const threshold = 2 * 1024 * 1024

	tests := []struct {
		name string
		size int64
		want domain.QueueClass
	}{
		{name: "small file", size: 1024, want: domain.QueueHighPriority},
		{name: "just under threshold", size: threshold - 1, want: domain.QueueHighPriority},
		{name: "at threshold", size: threshold, want: domain.QueueLowPriority},
		{name: "large file", size: 8 * 1024 * 1024, want: domain.QueueLowPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := router.QueueFor(tt.size, threshold); got != tt.want {
				t.Fatalf("QueueFor(%d) = %s, want %s", tt.size, got, tt.want)
			}
		})
	}
}
