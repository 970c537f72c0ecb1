package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Document Errors (DOC, FRM, FNT)
//
//	DOC001 - No document open
//	         Action: Open the layout before filling frames
//	FRM001 - Frame not found
//	         Action: Name the first frame of the linked chain exactly as configured
//	FRM002 - Text overflows the frame chain (warning, not a failure)
//	         Action: Add more linked frames or reduce font size/line spacing
//	FNT001 - Font not found
//	         Action: Copy the font name exactly as the layout lists it
//	FRM003 - Invalid text range or layout
//	         Action: Check the layout file for invalid frames or styles
//
// # Source File Errors (CSV, FILE)
//
//	CSV001 - CSV has no data rows
//	         Action: Check the file, or turn off header skipping for header-less files
//	CSV002 - Invalid CSV
//	         Action: Save the sheet as "CSV UTF-8 (Comma delimited)"
//	CSV003 - Encoding error
//	         Action: Save the file with UTF-8 encoding
//	FILE001 - File too large
//	FILE004 - No file provided
//	FILE006 - File not found
//
// # Fill Errors (UPL)
//
//	UPL002 - Too many fills in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timed out
//
// # Request Errors (REQ, RUN)
//
//	REQ001 - Invalid request parameters
//	RUN001 - Run not found
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error.
//
// # Matching
//
// Known sentinel errors are matched with errors.Is first. Anything else is
// matched case-insensitively against the message patterns; the first match
// wins, so more specific patterns come first.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/extract"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// ErrFileTooLarge is returned when an uploaded source exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrNoFile is returned when a request carries no source file.
var ErrNoFile = errors.New("no file provided")

// ErrInvalidRequest marks malformed parameters such as an unparsable run id.
var ErrInvalidRequest = errors.New("invalid request")

var (
	msgNoDocument = UserMessage{
		Message: "No document open",
		Action:  "Open the layout before filling frames",
		Code:    "DOC001",
	}
	msgFrameNotFound = UserMessage{
		Message: "Frame not found",
		Action:  "Name the first frame of the linked chain exactly as configured",
		Code:    "FRM001",
	}
	msgInvalidLayout = UserMessage{
		Message: "The layout rejected the text or formatting",
		Action:  "Check the layout file for invalid frames or styles",
		Code:    "FRM003",
	}
	msgFontNotFound = UserMessage{
		Message: "Font not found",
		Action:  "Copy the font name exactly as the layout lists it, including style",
		Code:    "FNT001",
	}
	msgNoData = UserMessage{
		Message: "CSV has no data rows",
		Action:  "Check the file, or turn off header skipping if it has no header row",
		Code:    "CSV001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Save the sheet as \"CSV UTF-8 (Comma delimited)\"",
		Code:    "CSV002",
	}
	msgEncoding = UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save the file with UTF-8 encoding",
		Code:    "CSV003",
	}
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Split the sheet or remove unused columns",
		Code:    "FILE001",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file",
		Code:    "FILE004",
	}
	msgFileNotFound = UserMessage{
		Message: "File not found",
		Action:  "Check the path of the source file",
		Code:    "FILE006",
	}
	msgBusy = UserMessage{
		Message: "Another fill is in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgInvalidRequest = UserMessage{
		Message: "The request is invalid",
		Action:  "Check the request parameters",
		Code:    "REQ001",
	}
	msgRunNotFound = UserMessage{
		Message: "Run not found",
		Action:  "Pick a run from the history list",
		Code:    "RUN001",
	}
	msgDefault = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
)

// sentinels maps known errors to messages. Order matters for wrapped chains.
var sentinels = []struct {
	err error
	msg UserMessage
}{
	{document.ErrNoDocument, msgNoDocument},
	{document.ErrFrameNotFound, msgFrameNotFound},
	{document.ErrFontNotFound, msgFontNotFound},
	{document.ErrInvalidRange, msgInvalidLayout},
	{document.ErrInvalidLayout, msgInvalidLayout},
	{extract.ErrNoData, msgNoData},
	{extract.ErrEncoding, msgEncoding},
	{extract.ErrInvalidCSV, msgInvalidCSV},
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrNoFile, msgNoFile},
	{fs.ErrNotExist, msgFileNotFound},
	{ErrTooManyFills, msgBusy},
	{ErrInvalidRequest, msgInvalidRequest},
	{ErrRunNotFound, msgRunNotFound},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that lost their identity, e.g. when they
// crossed a process boundary as text.
var errorPatterns = []errorPattern{
	{pattern: "no document open", msg: msgNoDocument},
	{pattern: "frame not found", msg: msgFrameNotFound},
	{pattern: "font not found", msg: msgFontNotFound},
	{pattern: "no data rows", msg: msgNoData},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "no such file", msg: msgFileNotFound},
	{pattern: "too many fills", msg: msgBusy},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil errors.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}

	return msgDefault
}

// FormatUserError returns a formatted error string suitable for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != msgDefault.Code
}

// OverflowWarning is the message reported when text flows past the last
// frame of the chain that starts at frame.
func OverflowWarning(frame string) UserMessage {
	return UserMessage{
		Message: fmt.Sprintf("Text flows beyond linked frames starting at '%s'.", frame),
		Action:  "Add more linked frames or reduce font size/line spacing.",
		Code:    "FRM002",
	}
}
