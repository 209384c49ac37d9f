// Package detect defines the content-detector contract and the placeholder
// implementation behind the analysis pipeline. A real detector must accept
// the same Request shape and return the same Result shape.
package detect

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyRequest = errors.New("detect: request carries no content")

// Request references the content to classify. Exactly one of FileRef or Text
// is expected to be set.
type Request struct {
	// FileRef identifies an uploaded file (name, never the bytes).
	FileRef  string
	FileSize int64
	MimeType string
	// Text is raw pasted text.
	Text string
}

// Empty reports whether the request carries neither a file reference nor
// non-blank text.
func (r Request) Empty() bool {
	return r.FileRef == "" && strings.TrimSpace(r.Text) == ""
}

// Result is the classification verdict.
type Result struct {
	IsReal      bool   `json:"is_real"`
	Confidence  int    `json:"confidence"` // closed range [60,100]
	Explanation string `json:"explanation"`
}

type Detector interface {
	Detect(ctx context.Context, req Request) (Result, error)
}
