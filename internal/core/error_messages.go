package core

// # Error Codes Reference
//
// Users can quote these codes to support staff. Codes are grouped by category.
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - Missing mapping: A required column could not be found
//	         Action: Choose a column for weight and carrier rate from the available headers
//	         Match: *MissingMappingError
//
// # Settings Errors (SET001-SET099)
//
//	SET001 - Invalid settings: One or more rate settings are out of range
//	         Action: Check fuel surcharge, markup and surcharge values
//	         Match: *SettingsError
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Incomplete request: fileId, mapping and settings are all required
//	         Action: Upload a file and choose a column mapping before analyzing
//	         Match: ErrIncompleteRequest
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	FILE002 - Invalid CSV: File is not a valid CSV
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: CSV has no data
//
// # Staging Errors (STG001-STG099)
//
//	STG001 - File not found: The uploaded file has expired or never existed
//	         Action: Upload the file again
//	         Match: staging.ErrNotFound, staging.ErrInvalidID
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many analyses in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Analysis failed
//	         Action: Please try again or contact support
//
// # Matching
//
// Sentinel and typed errors are matched first with errors.Is and errors.As.
// Anything else falls through to case-insensitive substring patterns on the
// error text, first match wins. Unmatched errors map to ERR000; check the
// application logs for the technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/rateaudit/internal/staging"
)

// ErrIncompleteRequest is returned when an analysis request lacks fileId, mapping or settings.
var ErrIncompleteRequest = errors.New("incomplete request: fileId, mapping and settings are required")

// ErrNoFile is returned when an upload carries no file part.
var ErrNoFile = errors.New("no file provided")

// ErrFileTooLarge is returned when an upload exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgMissingMapping = UserMessage{
		Message: "A required column could not be found",
		Action:  "Choose a column for weight and carrier rate from the available headers",
		Code:    "MAP001",
	}
	msgInvalidSettings = UserMessage{
		Message: "One or more rate settings are invalid",
		Action:  "Check fuel surcharge, markup and surcharge values",
		Code:    "SET001",
	}
	msgIncompleteRequest = UserMessage{
		Message: "fileId, mapping and settings are required",
		Action:  "Upload a file and choose a column mapping before analyzing",
		Code:    "REQ001",
	}
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with a header row",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "CSV has no data",
		Action:  "Please upload a CSV file with a header and at least one data row",
		Code:    "FILE005",
	}
	msgStagedNotFound = UserMessage{
		Message: "Uploaded file not found",
		Action:  "The upload may have expired. Please upload the file again",
		Code:    "STG001",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other analyses",
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
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors that arrive as text only, e.g. from the
// multipart reader or a wrapped driver error. First match wins.
var errorPatterns = []errorPattern{
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "no such file", msg: msgNoFile},
	{pattern: "empty file", msg: msgEmptyFile},
	{pattern: "too many analyses", msg: msgBusy},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Analysis failed",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var mm *MissingMappingError
	var se *SettingsError
	switch {
	case errors.As(err, &mm):
		return msgMissingMapping
	case errors.As(err, &se):
		return msgInvalidSettings
	case errors.Is(err, ErrIncompleteRequest):
		return msgIncompleteRequest
	case errors.Is(err, ErrFileTooLarge):
		return msgFileTooLarge
	case errors.Is(err, ErrInvalidCSV):
		return msgInvalidCSV
	case errors.Is(err, ErrNoFile):
		return msgNoFile
	case errors.Is(err, ErrEmptyTable):
		return msgEmptyFile
	case errors.Is(err, staging.ErrNotFound), errors.Is(err, staging.ErrInvalidID):
		return msgStagedNotFound
	case errors.Is(err, ErrTooManyAnalyses):
		return msgBusy
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
