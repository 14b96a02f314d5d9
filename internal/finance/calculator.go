package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AllowedTerms - the contract lengths the shop offers, in months
var AllowedTerms = []int{6, 12, 18, 24, 36}

var (
	ErrEmptyCart          = errors.New("at least one cart line is required")
	ErrInvalidTerm        = fmt.Errorf("term must be one of %v months", AllowedTerms)
	ErrNegativeRate       = errors.New("interest rate cannot be negative")
	ErrInvalidDownPayment = errors.New("down payment must be between 0 and the cart subtotal")
)

// QuoteLine - one cart line feeding the financing calculation
type QuoteLine struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns Quantity * UnitPrice for the line.
func (l QuoteLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quote - the simple-interest financing terms for a cart.
//
// financed = subtotal - down payment
// interest = financed * (rate/100) * (term/12)
// total    = subtotal + interest
// monthly  = (financed + interest) / term, zero when nothing is financed
//
// Simple interest, not amortized: the rate applies once to the financed
// amount scaled by the term in years.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	FinancedAmount decimal.Decimal `json:"financed_amount"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	TermMonths     int             `json:"term_months"`
	Interest       decimal.Decimal `json:"interest"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// NewQuote validates the inputs and computes the financing terms.
// Nothing is persisted here; callers decide what to do with the quote.
func NewQuote(lines []QuoteLine, downPayment decimal.Decimal, termMonths int, annualRatePct decimal.Decimal) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !termAllowed(termMonths) {
		return nil, ErrInvalidTerm
	}
	if annualRatePct.IsNegative() {
		return nil, ErrNegativeRate
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("line for product %d has non-positive quantity", l.ProductID)
		}
		subtotal = subtotal.Add(l.Total())
	}

	if downPayment.IsNegative() || downPayment.GreaterThan(subtotal) {
		return nil, ErrInvalidDownPayment
	}

	financed := subtotal.Sub(downPayment)
	hundred := decimal.NewFromInt(100)
	twelve := decimal.NewFromInt(12)
	term := decimal.NewFromInt(int64(termMonths))

	// interest = financed * (rate/100) * (termMonths/12)
	interest := financed.Mul(annualRatePct).Div(hundred).Mul(term).Div(twelve).Round(2)

	monthly := decimal.Zero
	if financed.GreaterThan(decimal.Zero) {
		monthly = financed.Add(interest).Div(term).Round(2)
	}

	return &Quote{
		Subtotal:       subtotal,
		DownPayment:    downPayment,
		FinancedAmount: financed,
		AnnualRatePct:  annualRatePct,
		TermMonths:     termMonths,
		Interest:       interest,
		TotalAmount:    subtotal.Add(interest),
		MonthlyPayment: monthly,
	}, nil
}

// ScheduledInstallment - one generated schedule row before persistence
type ScheduledInstallment struct {
	Number    int
	DueDate   time.Time
	AmountDue decimal.Decimal
}

// Schedule emits exactly TermMonths rows, numbered from 1, each carrying the
// monthly payment, with due dates one calendar month apart starting at
// firstDue. The rounding remainder across rows is NOT pushed onto the last
// installment; the sum may drift from TotalAmount - DownPayment by cents.
func (q *Quote) Schedule(firstDue time.Time) []ScheduledInstallment {
	rows := make([]ScheduledInstallment, 0, q.TermMonths)
	for n := 1; n <= q.TermMonths; n++ {
		rows = append(rows, ScheduledInstallment{
			Number:    n,
			DueDate:   firstDue.AddDate(0, n-1, 0),
			AmountDue: q.MonthlyPayment,
		})
	}
	return rows
}

func termAllowed(months int) bool {
	for _, t := range AllowedTerms {
		if t == months {
			return true
		}
	}
	return false
}
