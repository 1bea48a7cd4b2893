package domain

import "time"

type FileStatus string

const (
	StatusPending    FileStatus = "pending"
	StatusProcessing FileStatus = "processing"
	StatusCompleted  FileStatus = "completed"
	StatusFailed     FileStatus = "failed"
)

// Pipeline names the extraction route selected for a file by its extension.
type Pipeline string

const (
	PipelineImageOCR    Pipeline = "image_ocr"
	PipelinePDFOCR      Pipeline = "pdf_ocr"
	PipelineDocx        Pipeline = "docx"
	PipelineSpreadsheet Pipeline = "spreadsheet"
	PipelinePlainText   Pipeline = "plain_text"
)

// ResultType distinguishes how the text behind an analysis was obtained:
// "ocr" for image-derived text, "ner" for text parsed directly.
func (p Pipeline) ResultType() string {
	switch p {
	case PipelineImageOCR, PipelinePDFOCR:
		return "ocr"
	default:
		return "ner"
	}
}

type QueueClass string

const (
	QueueHighPriority QueueClass = "high_priority"
	QueueLowPriority  QueueClass = "low_priority"
)

type StoredFile struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Filename    string     `json:"filename"`
	StoragePath string     `json:"storage_path"`
	Extension   string     `json:"extension"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      FileStatus `json:"status"`
	Processed   bool       `json:"processed"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskMessage is the unit carried by the processing queue. Queue is fixed at
// submission time; retries re-enter the same queue with Attempt incremented.
type TaskMessage struct {
	TaskID     string     `json:"task_id"`
	FileID     string     `json:"file_id"`
	OwnerID    string     `json:"owner_id"`
	Attempt    int        `json:"attempt"`
	Queue      QueueClass `json:"queue"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
}

// TaskHandle is returned to the caller at submission for status polling.
type TaskHandle struct {
	TaskID string     `json:"task_id"`
	FileID string     `json:"file_id"`
	Queue  QueueClass `json:"queue"`
}

// FileState is the polling view of a stored file.
type FileState struct {
	Processed bool   `json:"processed"`
	Status    string `json:"status"`
}
