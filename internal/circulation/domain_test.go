package circulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDueDateIsFourteenDaysOut(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-15", DefaultDueDate(now))
}

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC)

	assert.NoError(t, ValidateDueDate("2025-01-10", now), "today is the floor, not below it")
	assert.NoError(t, ValidateDueDate("2025-02-01", now))
	assert.ErrorIs(t, ValidateDueDate("2025-01-09", now), ErrDueDateBeforeToday)
	assert.Error(t, ValidateDueDate("10/01/2025", now))
	assert.Error(t, ValidateDueDate("", now))
}

func TestSortByDueDate(t *testing.T) {
	loans := []Loan{
		{ID: "l3", FechaVencimiento: "2025-03-01"},
		{ID: "l1", FechaVencimiento: "2025-01-01"},
		{ID: "l2", FechaVencimiento: "2025-02-01"},
	}

	sorted := SortByDueDate(loans)

	assert.Equal(t, []string{"l1", "l2", "l3"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "l3", loans[0].ID, "input slice must not be reordered")
}
