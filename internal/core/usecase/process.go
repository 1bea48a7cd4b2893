package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
	"github.com/kirillkom/doc-insight/internal/infrastructure/resilience"
)

// ProcessFileUseCase runs one task to completion: route, extract, analyze,
// persist, notify. Content errors are terminal; infrastructure errors are
// rescheduled through the retry policy. Exactly one notification fires per
// terminal transition, never on intermediate retries.
type ProcessFileUseCase struct {
	files     ports.FileRepository
	results   ports.ResultStore
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	analyzer  ports.TextAnalyzer
	queue     ports.TaskQueue
	notifier  ports.Notifier
	router    *Router
	retry     resilience.RetryPolicy
}

func NewProcessFileUseCase(
	files ports.FileRepository,
	results ports.ResultStore,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	analyzer ports.TextAnalyzer,
	queue ports.TaskQueue,
	notifier ports.Notifier,
	router *Router,
	retry resilience.RetryPolicy,
) *ProcessFileUseCase {
	return &ProcessFileUseCase{
		files:     files,
		results:   results,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
		queue:     queue,
		notifier:  notifier,
		router:    router,
		retry:     retry,
	}
}

func (uc *ProcessFileUseCase) Execute(ctx context.Context, msg domain.TaskMessage) error {
	file, err := uc.files.GetOwned(ctx, msg.FileID, msg.OwnerID)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			// The file was deleted while the task sat in the queue.
			return fmt.Errorf("load file for processing: %w", err)
		}
		return uc.scheduleRetry(ctx, msg, fmt.Errorf("load file for processing: %w", err))
	}

	if err := uc.files.ClaimProcessing(ctx, file.ID); err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return fmt.Errorf("claim file for processing: %w", err)
		}
		return uc.scheduleRetry(ctx, msg, fmt.Errorf("claim file for processing: %w", err))
	}

	pipeline, err := uc.router.Route(file.Extension, file.SizeBytes)
	if err != nil {
		return uc.finishFailed(ctx, msg, err)
	}

	text, err := uc.extractor.Extract(ctx, pipeline, uc.storage.Path(file.StoragePath))
	if err != nil {
		if domain.IsContentError(err) {
			return uc.finishFailed(ctx, msg, err)
		}
		return uc.scheduleRetry(ctx, msg, err)
	}

	// Analysis never fails the task: missing NLP capability degrades to
	// empty entities and keywords inside the analyzer.
	result := uc.analyzer.Analyze(ctx, text)

	metadata := map[string]any{
		"pipeline": string(pipeline),
		"task_id":  msg.TaskID,
		"attempt":  msg.Attempt,
	}
	if _, err := uc.results.Save(ctx, file.ID, pipeline.ResultType(), result, metadata); err != nil {
		return uc.scheduleRetry(ctx, msg, fmt.Errorf("persist analysis result: %w", err))
	}

	if err := uc.files.MarkCompleted(ctx, file.ID); err != nil {
		return uc.scheduleRetry(ctx, msg, fmt.Errorf("set status=completed: %w", err))
	}

	uc.notifier.Notify(ctx, msg.OwnerID, msg.FileID, true)
	return nil
}

// scheduleRetry re-enqueues the task into its original lane with backoff, or
// finishes it as failed once attempts are exhausted.
func (uc *ProcessFileUseCase) scheduleRetry(ctx context.Context, msg domain.TaskMessage, cause error) error {
	delay, ok := uc.retry.Next(msg.Attempt)
	if !ok {
		return uc.finishFailed(ctx, msg, cause)
	}

	next := msg
	next.Attempt++
	next.EnqueuedAt = time.Now().UTC()

	if err := uc.queue.PublishDelayed(ctx, next, delay); err != nil {
		return uc.finishFailed(ctx, msg, fmt.Errorf("%w; reschedule: %w", cause, err))
	}

	slog.Warn("task_retry_scheduled",
		"task_id", msg.TaskID,
		"file_id", msg.FileID,
		"attempt", msg.Attempt,
		"next_attempt", next.Attempt,
		"backoff_s", delay.Seconds(),
		"error", cause,
	)
	return nil
}

func (uc *ProcessFileUseCase) finishFailed(ctx context.Context, msg domain.TaskMessage, cause error) error {
	if err := uc.files.MarkFailed(ctx, msg.FileID, cause.Error()); err != nil {
		slog.Error("mark_failed_status",
			"task_id", msg.TaskID,
			"file_id", msg.FileID,
			"error", err,
		)
	}
	uc.notifier.Notify(ctx, msg.OwnerID, msg.FileID, false)
	return cause
}
