package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/extract"
)

func TestMapError(t *testing.T) {
	_, notExist := os.Open("/definitely/not/here.csv")

	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "no document",
			err:         document.ErrNoDocument,
			wantCode:    "DOC001",
			wantMessage: "No document open",
		},
		{
			name:        "wrapped frame not found",
			err:         fmt.Errorf("%w: %q", document.ErrFrameNotFound, "TitleFrame"),
			wantCode:    "FRM001",
			wantMessage: "Frame not found",
		},
		{
			name:        "font not found",
			err:         fmt.Errorf("set font: %w", document.ErrFontNotFound),
			wantCode:    "FNT001",
			wantMessage: "Font not found",
		},
		{
			name:        "invalid range",
			err:         document.ErrInvalidRange,
			wantCode:    "FRM003",
			wantMessage: "The layout rejected the text or formatting",
		},
		{
			name:        "no data rows",
			err:         fmt.Errorf("read titles.csv: %w", extract.ErrNoData),
			wantCode:    "CSV001",
			wantMessage: "CSV has no data rows",
		},
		{
			name:        "invalid csv",
			err:         fmt.Errorf("%w: bare quote", extract.ErrInvalidCSV),
			wantCode:    "CSV002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "encoding",
			err:         extract.ErrEncoding,
			wantCode:    "CSV003",
			wantMessage: "File contains invalid characters",
		},
		{
			name:        "missing file",
			err:         fmt.Errorf("read: %w", notExist),
			wantCode:    "FILE006",
			wantMessage: "File not found",
		},
		{
			name:        "fill limiter busy",
			err:         ErrTooManyFills,
			wantCode:    "UPL002",
			wantMessage: "Another fill is in progress",
		},
		{
			name:        "cancelled",
			err:         context.Canceled,
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("fill: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "text pattern fallback",
			err:         errors.New("remote: Frame Not Found: Body"),
			wantCode:    "FRM001",
			wantMessage: "Frame not found",
		},
		{
			name:        "request body too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(document.ErrNoDocument)

	expected := "No document open (Code: DOC001). Open the layout before filling frames"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  extract.ErrNoData,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverflowWarning(t *testing.T) {
	got := OverflowWarning("TitleFrame")
	if got.Code != "FRM002" {
		t.Errorf("Code = %q, want FRM002", got.Code)
	}
	want := "Text flows beyond linked frames starting at 'TitleFrame'."
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}
