package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/rateaudit/internal/staging"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"missing mapping", &MissingMappingError{Fields: []Field{FieldWeight}}, "MAP001"},
		{"wrapped missing mapping", fmt.Errorf("analyze: %w", &MissingMappingError{}), "MAP001"},
		{"invalid settings", &SettingsError{Problems: []string{"x"}}, "SET001"},
		{"incomplete request", ErrIncompleteRequest, "REQ001"},
		{"file too large", fmt.Errorf("%w: 60 MiB", ErrFileTooLarge), "FILE001"},
		{"multipart body too large", errors.New("http: request body too large"), "FILE001"},
		{"invalid csv", fmt.Errorf("%w: bare quote", ErrInvalidCSV), "FILE002"},
		{"no file", ErrNoFile, "FILE004"},
		{"missing multipart file", errors.New("http: no such file"), "FILE004"},
		{"empty table", ErrEmptyTable, "FILE005"},
		{"staged not found", staging.ErrNotFound, "STG001"},
		{"staged invalid id", staging.ErrInvalidID, "STG001"},
		{"busy", ErrTooManyAnalyses, "UPL002"},
		{"cancelled", context.Canceled, "UPL004"},
		{"deadline", fmt.Errorf("load: %w", context.DeadlineExceeded), "UPL005"},
		{"rate limited text", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown", errors.New("disk on fire"), "ERR000"},
		{"encoding text has no code of its own", errors.New("encoding error: bad byte"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError(%v) missing message or action: %+v", tt.err, got)
			}
		})
	}
}

func TestMapError_DefaultMessage(t *testing.T) {
	got := MapError(errors.New("boom"))
	if got.Message != "Analysis failed" {
		t.Errorf("Message = %q, want %q", got.Message, "Analysis failed")
	}
}

func TestFormatUserError(t *testing.T) {
	want := "CSV has no data (Code: FILE005). Please upload a CSV file with a header and at least one data row"
	if got := FormatUserError(ErrEmptyTable); got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrEmptyTable, true},
		{&MissingMappingError{}, true},
		{errors.New("something unexpected"), false},
	}
	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
