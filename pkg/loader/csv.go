package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/fixtures/pkg/domain"
)

// CSV loads a table into a slice of rows keyed by the header line.
// Every cell goes through Coerce. Rows shorter than the header get nil for the
// missing columns; cells beyond the header are dropped.
func CSV(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := DecodeCSV(data)
	if err != nil {
		return nil, &domain.DataFormatError{Path: path, Format: domain.FormatCSV, Err: err}
	}
	return rows, nil
}

// DecodeCSV parses CSV bytes. The result is always a []any of map[string]any,
// empty (not nil) when the table has no data rows.
func DecodeCSV(data []byte) ([]any, error) {
	// Strip a UTF-8 byte order mark left by spreadsheet exports.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []any{}, nil
		}
		return nil, err
	}

	rows := []any{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = Coerce(record[i])
			} else {
				row[h] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Coerce converts a raw CSV cell. The order of attempts is fixed:
// blank → nil, true/false (any case) → bool, integer without a '.' → int64,
// float → float64, anything else → the trimmed string. "007" is therefore 7.
// Numbers may group digits with single underscores, as in 1_000.
func Coerce(raw string) any {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}

	digits, ok := stripDigitSeparators(value)
	if !ok {
		return value
	}

	if !strings.Contains(digits, ".") {
		if i, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return i
		}
	}

	if f, err := strconv.ParseFloat(digits, 64); err == nil {
		return f
	}

	return value
}

// stripDigitSeparators drops underscores that sit between two digits.
// It reports false for any other underscore.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
