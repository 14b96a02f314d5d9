package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(qty int, price float64) QuoteLine {
	return QuoteLine{ProductID: 1, Quantity: qty, UnitPrice: decimal.NewFromFloat(price)}
}

func TestNewQuote(t *testing.T) {
	t.Run("standard financing terms", func(t *testing.T) {
		// 2 x 1000, down 500, 12 months at 12%/year
		q, err := NewQuote([]QuoteLine{line(2, 1000)}, decimal.NewFromInt(500), 12, decimal.NewFromInt(12))

		require.NoError(t, err)
		assert.Equal(t, "2000", q.Subtotal.String())
		assert.Equal(t, "1500", q.FinancedAmount.String())
		assert.Equal(t, "180", q.Interest.String())    // 1500 * 0.12 * 1
		assert.Equal(t, "2180", q.TotalAmount.String()) // subtotal + interest
		assert.Equal(t, "140", q.MonthlyPayment.String())
	})

	t.Run("full down payment finances nothing", func(t *testing.T) {
		q, err := NewQuote([]QuoteLine{line(1, 800)}, decimal.NewFromInt(800), 6, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.True(t, q.FinancedAmount.IsZero())
		assert.True(t, q.Interest.IsZero())
		assert.True(t, q.MonthlyPayment.IsZero())
		assert.Equal(t, "800", q.TotalAmount.String())
	})

	t.Run("monthly payment is rounded to cents", func(t *testing.T) {
		// financed 1000, 10% over 6 months: interest 50, monthly 1050/6 = 175
		q, err := NewQuote([]QuoteLine{line(1, 1000)}, decimal.Zero, 6, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, "175", q.MonthlyPayment.String())

		// financed 1000, 12.5% over 18 months: interest 187.5, monthly 1187.5/18 = 65.97...
		q, err = NewQuote([]QuoteLine{line(1, 1000)}, decimal.Zero, 18, decimal.NewFromFloat(12.5))
		require.NoError(t, err)
		assert.Equal(t, "65.97", q.MonthlyPayment.String())
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, err := NewQuote(nil, decimal.Zero, 12, decimal.NewFromInt(12))
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("rejects term outside the offered set", func(t *testing.T) {
		_, err := NewQuote([]QuoteLine{line(1, 100)}, decimal.Zero, 7, decimal.NewFromInt(12))
		assert.ErrorIs(t, err, ErrInvalidTerm)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewQuote([]QuoteLine{line(1, 100)}, decimal.Zero, 12, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrNegativeRate)
	})

	t.Run("rejects down payment above subtotal", func(t *testing.T) {
		_, err := NewQuote([]QuoteLine{line(1, 100)}, decimal.NewFromInt(150), 12, decimal.NewFromInt(12))
		assert.ErrorIs(t, err, ErrInvalidDownPayment)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		_, err := NewQuote([]QuoteLine{line(0, 100)}, decimal.Zero, 12, decimal.NewFromInt(12))
		assert.Error(t, err)
	})
}

func TestQuoteSchedule(t *testing.T) {
	q, err := NewQuote([]QuoteLine{line(2, 1000)}, decimal.NewFromInt(500), 12, decimal.NewFromInt(12))
	require.NoError(t, err)

	firstDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	rows := q.Schedule(firstDue)

	require.Len(t, rows, 12)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, "140", row.AmountDue.String())
		assert.Equal(t, firstDue.AddDate(0, i, 0), row.DueDate)
	}

	// Consecutive due dates are exactly one calendar month apart
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, rows[i-1].DueDate.AddDate(0, 1, 0), rows[i].DueDate)
	}
}

func TestQuoteScheduleMonthEndDates(t *testing.T) {
	q, err := NewQuote([]QuoteLine{line(1, 600)}, decimal.Zero, 6, decimal.Zero)
	require.NoError(t, err)

	// Jan 31 start: Go normalizes Feb 31 to early March, matching calendar-month addition
	firstDue := time.Date(2026, 1, 31, 0, 0, 0, 0, time.Local)
	rows := q.Schedule(firstDue)

	require.Len(t, rows, 6)
	assert.Equal(t, firstDue, rows[0].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), rows[1].DueDate)
}
