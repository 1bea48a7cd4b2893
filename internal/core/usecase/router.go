package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/doc-insight/internal/core/domain"
)

// Router maps a file extension to the pipeline that can extract its text.
// Route is pure: the same inputs always yield the same decision.
type Router struct {
	maxFileSize int64
	imageExts   map[string]struct{}
	textExts    map[string]struct{}
}

func NewRouter(maxFileSize int64, imageExts, textExts []string) *Router {
	return &Router{
		maxFileSize: maxFileSize,
		imageExts:   toSet(imageExts),
		textExts:    toSet(textExts),
	}
}

func (r *Router) Route(extension string, size int64) (domain.Pipeline, error) {
	if size > r.maxFileSize {
		return "", domain.WrapError(domain.ErrFileTooLarge, "route",
			fmt.Errorf("size %d exceeds limit %d", size, r.maxFileSize))
	}

	ext := strings.ToLower(strings.TrimSpace(extension))
	switch {
	case r.isImage(ext):
		return domain.PipelineImageOCR, nil
	case ext == ".pdf":
		return domain.PipelinePDFOCR, nil
	case ext == ".docx":
		return domain.PipelineDocx, nil
	case ext == ".xlsx":
		return domain.PipelineSpreadsheet, nil
	case r.isText(ext):
		return domain.PipelinePlainText, nil
	default:
		return "", domain.WrapError(domain.ErrUnsupportedType, "route",
			fmt.Errorf("extension %q", extension))
	}
}

// QueueFor selects the priority lane by file size. Small files go to the
// fast lane; the decision is made once at submission and never revisited.
func (r *Router) QueueFor(size, highPriorityBytes int64) domain.QueueClass {
	if size < highPriorityBytes {
		return domain.QueueHighPriority
	}
	return domain.QueueLowPriority
}

func (r *Router) isImage(ext string) bool {
	_, ok := r.imageExts[ext]
	return ok
}

func (r *Router) isText(ext string) bool {
	_, ok := r.textExts[ext]
	return ok
}

func toSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return set
}
