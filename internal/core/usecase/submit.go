package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/core/ports"
)

type SubmitFileUseCase struct {
	files             ports.FileRepository
	queue             ports.TaskQueue
	router            *Router
	highPriorityBytes int64
}

func NewSubmitFileUseCase(
	files ports.FileRepository,
	queue ports.TaskQueue,
	router *Router,
	highPriorityBytes int64,
) *SubmitFileUseCase {
	return &SubmitFileUseCase{
		files:             files,
		queue:             queue,
		router:            router,
		highPriorityBytes: highPriorityBytes,
	}
}

// Submit validates ownership and routing constraints, picks the priority
// lane by size and enqueues the task. The caller gets an opaque handle back
// immediately; it never blocks on processing.
func (uc *SubmitFileUseCase) Submit(ctx context.Context, fileID, ownerID string) (domain.TaskHandle, error) {
	file, err := uc.files.GetOwned(ctx, fileID, ownerID)
	if err != nil {
		return domain.TaskHandle{}, err
	}

	if file.Status == domain.StatusProcessing {
		return domain.TaskHandle{}, domain.WrapError(domain.ErrAlreadyProcessing, "submit",
			fmt.Errorf("file %s", fileID))
	}

	if _, err := uc.router.Route(file.Extension, file.SizeBytes); err != nil {
		return domain.TaskHandle{}, err
	}

	msg := domain.TaskMessage{
		TaskID:     uuid.NewString(),
		FileID:     file.ID,
		OwnerID:    ownerID,
		Attempt:    1,
		Queue:      uc.router.QueueFor(file.SizeBytes, uc.highPriorityBytes),
		EnqueuedAt: time.Now().UTC(),
	}

	if err := uc.queue.Publish(ctx, msg); err != nil {
		return domain.TaskHandle{}, fmt.Errorf("enqueue processing task: %w", err)
	}

	return domain.TaskHandle{
		TaskID: msg.TaskID,
		FileID: msg.FileID,
		Queue:  msg.Queue,
	}, nil
}
