package transaction

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// exportHeaders is the fixed export header row. Existing installs have
// files in this exact shape, so the order and spelling are frozen.
var exportHeaders = []string{"Title", "Amount", "Type", "Category", "Spent At", "Created At"}

// WriteCSV writes the user's transactions as CSV. Every value is
// wrapped in double quotes with internal quotes doubled, which is what
// the import parser and third-party spreadsheet tools both accept.
func WriteCSV(w io.Writer, items []ListItem) error {
	if _, err := fmt.Fprintln(w, strings.Join(exportHeaders, ",")); err != nil {
		return err
	}

	for _, item := range items {
		categoryName := ""
		if item.CategoryName != nil {
			categoryName = *item.CategoryName
		}

		fields := []string{
			item.Title,
			item.Amount.String(),
			string(item.Type),
			categoryName,
			item.SpentAt.UTC().Format(time.RFC3339),
			item.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, field := range fields {
			fields[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}

		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}

	return nil
}
