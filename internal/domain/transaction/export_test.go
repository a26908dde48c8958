package transaction

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportItem(title string, amount string, catName *string) ListItem {
	return ListItem{
		Transaction: Transaction{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Title:     title,
			Amount:    decimal.RequireFromString(amount),
			Type:      TypeExpense,
			SpentAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 1, 16, 8, 30, 0, 0, time.UTC),
		},
		CategoryName: catName,
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "Title,Amount,Type,Category,Spent At,Created At\n", buf.String())
}

func TestWriteCSV_AllValuesQuoted(t *testing.T) {
	food := "Food"
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, []ListItem{exportItem("Coffee", "120.5", &food)}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Coffee","120.5","expense","Food","2024-01-15T00:00:00Z","2024-01-16T08:30:00Z"`, lines[1])
}

func TestWriteCSV_QuotesDoubled(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, []ListItem{exportItem(`say "hi"`, "10", nil)}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"say ""hi""",`))
}

func TestWriteCSV_NilCategoryEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, []ListItem{exportItem("Misc", "10", nil)}))

	assert.Contains(t, buf.String(), `"expense","",`)
}

func TestWriteCSV_CommaInTitleSurvivesRoundTrip(t *testing.T) {
	// The exported shape must parse back with the same field boundaries.
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, []ListItem{exportItem("Dinner, with friends", "450", nil)}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[1], `"Dinner, with friends","450"`))
}
