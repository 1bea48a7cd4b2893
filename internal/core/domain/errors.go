package domain

import (
	"errors"
	"fmt"
)

// Input errors: rejected synchronously at submission, never retried.
var (
	ErrNotFound          = errors.New("file not found")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrAlreadyProcessing = errors.New("file is already being processed")
)

// Content errors: terminal for the file, no automatic retry.
var (
	ErrOCREmpty           = errors.New("ocr recognized no text")
	ErrDocxUnreadable     = errors.New("docx document unreadable")
	ErrSheetEmpty         = errors.New("spreadsheet contains no cell text")
	ErrEncodingUnresolved = errors.New("no candidate encoding decodes the file")
)

// ErrTemporary marks infrastructure failures eligible for the retry policy.
var ErrTemporary = errors.New("temporary failure")

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// IsContentError reports whether err is a terminal extraction failure caused
// by the file's content rather than by infrastructure.
func IsContentError(err error) bool {
	return errors.Is(err, ErrOCREmpty) ||
		errors.Is(err, ErrDocxUnreadable) ||
		errors.Is(err, ErrSheetEmpty) ||
		errors.Is(err, ErrEncodingUnresolved)
}

// IsInputError reports whether err belongs to the submission-time taxonomy.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrAlreadyProcessing)
}
