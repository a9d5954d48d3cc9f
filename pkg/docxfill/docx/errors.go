package docx

import (
	"errors"
	"fmt"
)

// ErrNotDocx indicates the input is a zip archive but not a DOCX package.
var ErrNotDocx = errors.New("not a valid DOCX file: missing word/document.xml")

// DocumentError represents an error during package I/O or part parsing.
// These are distinct from the fill engine's data-resolution errors.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
