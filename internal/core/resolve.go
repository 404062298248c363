package core

// resolve.go maps caller-declared header names onto the columns of an
// arbitrary upload.
//
// Resolution tries four passes in order and stops at the first hit:
//  1. exact match after trimming
//  2. case-insensitive match after trimming
//  3. substring containment in either direction (trimmed, lower-cased)
//  4. equality after reducing both sides to lower-case alphanumerics
//
// A required field that resolves nowhere fails the whole batch with a
// MissingMappingError listing every header that is actually present.

import (
	"fmt"
	"strings"
	"unicode"
)

// MissingMappingError reports required fields that matched no header.
type MissingMappingError struct {
	Fields    []Field           // unresolved required fields
	Requested map[Field]string  // header name the caller asked for, per field
	Available []string          // every header in the table
}

func (e *MissingMappingError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s column %q not found", f, e.Requested[f]))
	}
	return fmt.Sprintf("missing required mapping: %s; available columns: %s",
		strings.Join(parts, ", "), strings.Join(e.Available, ", "))
}

// ResolveColumn returns the index of the header matching target, or NotFound.
// A blank target never matches.
func ResolveColumn(headers []string, target string) int {
	t := strings.TrimSpace(target)
	if t == "" {
		return NotFound
	}

	for i, h := range headers {
		if strings.TrimSpace(h) == t {
			return i
		}
	}

	tLower := strings.ToLower(t)
	for i, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == tLower {
			return i
		}
	}

	// Blank headers are skipped here: every target contains "".
	for i, h := range headers {
		hLower := strings.ToLower(strings.TrimSpace(h))
		if hLower == "" {
			continue
		}
		if strings.Contains(hLower, tLower) || strings.Contains(tLower, hLower) {
			return i
		}
	}

	tNorm := alnumLower(t)
	if tNorm == "" {
		return NotFound
	}
	for i, h := range headers {
		if alnumLower(h) == tNorm {
			return i
		}
	}

	return NotFound
}

// ResolveMapping resolves every mapped field against the header row.
// Optional fields left blank or unmatched resolve to NotFound.
func ResolveMapping(headers []string, m ColumnMapping) (ResolvedIndices, error) {
	var idx ResolvedIndices
	for _, f := range AllFields {
		idx.set(f, ResolveColumn(headers, m.Header(f)))
	}

	var missing []Field
	for _, f := range RequiredFields {
		if idx.Index(f) < 0 {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		requested := make(map[Field]string, len(missing))
		for _, f := range missing {
			requested[f] = m.Header(f)
		}
		available := make([]string, len(headers))
		copy(available, headers)
		return idx, &MissingMappingError{
			Fields:    missing,
			Requested: requested,
			Available: available,
		}
	}

	return idx, nil
}

// alnumLower keeps only lower-cased ASCII letters and digits.
func alnumLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
