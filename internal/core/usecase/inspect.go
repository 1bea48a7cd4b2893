package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

// InspectFileUseCase is the synchronous service variant: it runs the same
// route-extract-analyze pipeline in-request on an uploaded payload, without
// touching the repository, queue or notifier.
type InspectFileUseCase struct {
	extractor ports.TextExtractor
	analyzer  ports.TextAnalyzer
	router    *Router
}

func NewInspectFileUseCase(extractor ports.TextExtractor, analyzer ports.TextAnalyzer, router *Router) *InspectFileUseCase {
	return &InspectFileUseCase{
		extractor: extractor,
		analyzer:  analyzer,
		router:    router,
	}
}

func (uc *InspectFileUseCase) Inspect(ctx context.Context, filename string, content []byte) (domain.InspectReport, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	pipeline, err := uc.router.Route(ext, int64(len(content)))
	if err != nil {
		return domain.InspectReport{}, err
	}

	path, cleanup, err := spillToTemp(ext, content)
	if err != nil {
		return domain.InspectReport{}, fmt.Errorf("spool upload: %w", err)
	}
	defer cleanup()

	text, err := uc.extractor.Extract(ctx, pipeline, path)
	if err != nil {
		return domain.InspectReport{}, err
	}

	return domain.InspectReport{
		Status:   "success",
		Type:     pipeline.ResultType(),
		Filename: filename,
		Result:   uc.analyzer.Analyze(ctx, text),
	}, nil
}

// spillToTemp writes the payload to a temp file so the extractors can work
// on a path, matching the asynchronous flow.
func spillToTemp(ext string, content []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "inspect-*"+ext)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(filepath.Clean(path)) }, nil
}
