// Package normalizer maps loosely-structured CSV records onto canonical
// transaction rows. Header naming is resolved through ordered alias
// lists, amounts and dates are coerced, and each record yields a tagged
// outcome: accepted, rejected with a reason, or skipped when blank.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcabanilla/gastos/internal/domain/import/parser"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
)

// Rejection reasons surfaced to the user per row.
const (
	ReasonMissingTitle  = "missing title"
	ReasonInvalidAmount = "invalid amount"
	ReasonMissingDate   = "missing date"
	ReasonInvalidDate   = "invalid date"
)

// Ordered header aliases per canonical field, checked case-insensitively
// with the first non-empty match winning. The BOM-prefixed date alias
// tolerates files whose first header absorbed a byte-order mark.
var (
	titleAliases    = []string{"title", "description", "details", "name"}
	amountAliases   = []string{"amount", "value", "total"}
	dateAliases     = []string{"date", "transaction date", "spent_at", "\uFEFFdate"}
	typeAliases     = []string{"type"}
	categoryAliases = []string{"category", "category name"}
)

// Row is a validated transaction ready for review and commit. It is
// never mutated after construction.
type Row struct {
	Title    string           `json:"title"`
	Amount   decimal.Decimal  `json:"amount"`
	Type     transaction.Type `json:"type"`
	Category string           `json:"category,omitempty"`
	SpentAt  time.Time        `json:"spent_at"`
}

// Rejection records why a record was excluded and where it sat in the
// input sequence (zero-based).
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Outcome is the result of normalizing one record. Exactly one of Row,
// Rejected is set, or Skipped is true for an all-blank record.
type Outcome struct {
	Row      *Row
	Rejected *Rejection
	Skipped  bool
}

// Result aggregates the outcomes for a whole parsed file.
type Result struct {
	Rows     []Row
	Rejected []Rejection
	Blank    int
}

// Normalize converts a raw record at the given position into an
// outcome. A record missing its title, amount, or date is rejected
// whole; no field is defaulted to cover for another.
func Normalize(rec parser.Record, index int) Outcome {
	if isBlank(rec) {
		return Outcome{Skipped: true}
	}

	title := resolveField(rec, titleAliases)
	if title == "" {
		return reject(index, ReasonMissingTitle)
	}

	amount, err := parseAmount(resolveField(rec, amountAliases))
	if err != nil {
		return reject(index, ReasonInvalidAmount)
	}

	rawDate := resolveField(rec, dateAliases)
	if rawDate == "" {
		return reject(index, ReasonMissingDate)
	}
	spentAt, err := parseDate(rawDate)
	if err != nil {
		return reject(index, ReasonInvalidDate)
	}

	return Outcome{Row: &Row{
		Title:    title,
		Amount:   amount,
		Type:     transaction.ParseType(resolveField(rec, typeAliases)),
		Category: resolveField(rec, categoryAliases),
		SpentAt:  spentAt,
	}}
}

// NormalizeAll runs Normalize over an ordered record sequence and
// aggregates accepted rows, rejections, and the blank-record count.
func NormalizeAll(records []parser.Record) Result {
	result := Result{Rows: make([]Row, 0, len(records))}

	for i, rec := range records {
		outcome := Normalize(rec, i)
		switch {
		case outcome.Skipped:
			result.Blank++
		case outcome.Rejected != nil:
			result.Rejected = append(result.Rejected, *outcome.Rejected)
		default:
			result.Rows = append(result.Rows, *outcome.Row)
		}
	}

	return result
}

func reject(index int, reason string) Outcome {
	return Outcome{Rejected: &Rejection{Index: index, Reason: reason}}
}

// resolveField returns the first non-empty value among the aliases.
// Record keys are already lower-cased by the parser, so the lookup is
// effectively case-insensitive.
func resolveField(rec parser.Record, aliases []string) string {
	for _, alias := range aliases {
		if value := strings.TrimSpace(rec[alias]); value != "" {
			return value
		}
	}
	return ""
}

// isBlank reports whether every field value is absent or whitespace.
func isBlank(rec parser.Record) bool {
	for _, value := range rec {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// parseAmount strips everything that is not a digit, decimal point, or
// minus sign before parsing, so currency symbols and thousands
// separators ("₱1,234.50") are tolerated.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric characters in %q", raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

// dateLayouts are tried in order for slash-free date strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate coerces a raw date string to UTC. Slash-separated dates are
// read as month/day/year and reassembled to year-month-day first.
func parseDate(raw string) (time.Time, error) {
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
		}
		month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
		}
		raw = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
