// Package core provides the business logic for filling frame chains from
// spreadsheet columns. This package has no UI dependencies and can be used
// by any frontend.
package core

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/extract"
	"github.com/google/uuid"
)

// Format is the fixed formatting applied to the whole inserted story.
type Format struct {
	Font        string
	Size        float64
	Alignment   document.Alignment
	LineSpacing float64
	LineMode    document.LineSpacingMode
}

// DefaultFormat matches the layout most title sheets use.
func DefaultFormat() Format {
	return Format{
		Font:        "Comic Sans MS Regular",
		Size:        20,
		Alignment:   document.AlignCenter,
		LineSpacing: 23,
		LineMode:    document.LineSpacingFixed,
	}
}

// Validate checks the values that a document would reject later.
func (f Format) Validate() error {
	if f.Font == "" {
		return fmt.Errorf("font name is required")
	}
	if f.Size <= 0 {
		return fmt.Errorf("font size must be positive")
	}
	if f.LineMode == document.LineSpacingFixed && f.LineSpacing <= 0 {
		return fmt.Errorf("line spacing must be positive in fixed mode")
	}
	return nil
}

// Options is everything one fill needs besides the source.
type Options struct {
	Frame   string
	Format  Format
	Extract extract.Options
}

// DefaultOptions fills "TitleFrame" from the first column without a header.
func DefaultOptions() Options {
	return Options{
		Frame:   "TitleFrame",
		Format:  DefaultFormat(),
		Extract: extract.DefaultOptions(),
	}
}

// Result describes a completed fill.
type Result struct {
	RunID      uuid.UUID     `json:"runId"`
	Frame      string        `json:"frame"`
	Source     string        `json:"source"`
	Rows       int           `json:"rows"`
	Characters int           `json:"characters"`
	Overflow   bool          `json:"overflow"`
	Message    string        `json:"message"`
	Warning    *UserMessage  `json:"warning,omitempty"`
	Duration   time.Duration `json:"durationNs"`
}

// PreviewResult holds the first extracted values of a source, formatted for
// inspection, and the total number of values it yields.
type PreviewResult struct {
	Source string   `json:"source"`
	Total  int      `json:"total"`
	Rows   []string `json:"rows"`
}

// RunStatus is the outcome recorded for a fill.
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunOverflow  RunStatus = "overflow"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded fill attempt.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Frame      string    `json:"frame"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	Characters int       `json:"characters"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
