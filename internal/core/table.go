package core

// table.go parses staged upload bytes into a RawTable.
//
// Uploads come from spreadsheet exports, so the reader is lenient:
//   - UTF-8 BOM from Windows tools is stripped
//   - Invalid UTF-8 is replaced with U+FFFD
//   - Rows may have differing column counts
//   - Blank lines are skipped; a row of empty cells such as ",," is kept so
//     every data line in the file yields one shipment

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrInvalidCSV wraps CSV syntax errors.
	ErrInvalidCSV = errors.New("invalid csv")

	// ErrEmptyTable is returned when a table has no data rows after the header.
	ErrEmptyTable = errors.New("empty file: CSV has no data")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseTable parses CSV bytes into a RawTable.
func ParseTable(data []byte) (RawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var table RawTable
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		table = append(table, rec)
	}
	return table, nil
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
