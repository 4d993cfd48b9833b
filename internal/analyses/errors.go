package analyses

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no referenced run or document exists.
	ErrNotFound = errors.New("not found")

	// ErrEmptyOutput is returned when the model produced no text at all.
	ErrEmptyOutput = errors.New("model returned empty output")

	// ErrInvalidModelOutput is returned when no JSON object could be
	// recovered from the model's text.
	ErrInvalidModelOutput = errors.New("model output is not valid JSON")
)

// ContentDiagnostic describes one document's extraction state. Returned to
// the caller so they can see why an analysis had nothing to work with.
type ContentDiagnostic struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	TextChars   int    `json:"textChars"`
	TextPreview string `json:"textPreview"`
}

// InsufficientContentError means the selected documents carried too little
// readable text and no usable attachment could be assembled either.
type InsufficientContentError struct {
	Details []ContentDiagnostic
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient readable content in %d document(s)", len(e.Details))
}
