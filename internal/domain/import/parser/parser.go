// Package parser converts raw CSV text into header-keyed records for
// transaction imports. It handles byte-order marks, comma/semicolon
// delimiter detection, and quoted fields containing delimiters.
package parser

import (
	"strings"
)

// Record is one parsed CSV line as a mapping from lower-cased header
// name to field value. Trailing fields missing from a short line are
// absent from the map, not empty strings.
type Record map[string]string

// Has reports whether the record carries a value for the given header.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Parse converts a full file's contents into an ordered sequence of
// records. A file with fewer than two lines (no header plus at least
// one data line) yields an empty sequence. Blank lines are skipped
// entirely and produce no record.
func Parse(text string) []Record {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lines := splitLines(text)
	if len(lines) < 2 {
		return nil
	}

	delimiter := detectDelimiter(lines[0])

	rawHeaders := splitFields(lines[0], delimiter)
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.ToLower(cleanField(h))
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitFields(line, delimiter)
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = cleanField(values[i])
			}
		}
		records = append(records, rec)
	}

	return records
}

// detectDelimiter inspects the header line: semicolon wins if present,
// comma otherwise. The choice applies to the whole file.
func detectDelimiter(header string) rune {
	if strings.ContainsRune(header, ';') {
		return ';'
	}
	return ','
}

// splitLines handles both \n and \r\n line endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// splitFields splits a line on the delimiter, ignoring delimiters that
// appear inside a pair of double quotes.
func splitFields(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == delimiter && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())

	return fields
}

// cleanField trims whitespace and strips at most one surrounding pair
// of double quotes. Doubled quotes inside a quoted field decode to a
// single literal quote.
func cleanField(raw string) string {
	value := strings.TrimSpace(raw)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
		value = strings.ReplaceAll(value, `""`, `"`)
	}
	return value
}
