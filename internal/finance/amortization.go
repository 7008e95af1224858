package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput wraps every validation failure in this package.
var ErrInvalidInput = errors.New("invalid input")

const (
	MaxAnnualRate = 100
	MaxTermMonths = 600

	// MaxAmount bounds every money input.
	MaxAmount = 1e12
)

// LoanInput describes a fixed-rate, monthly-payment loan. AnnualRate is a
// percentage, e.g. 6.5.
type LoanInput struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	TermMonths   int     `json:"termMonths"`
	ExtraMonthly float64 `json:"extraMonthly"`
}

// Validate reports the first out-of-range field.
func (in LoanInput) Validate() error {
	switch {
	case !finite(in.Principal) || in.Principal <= 0 || in.Principal > MaxAmount:
		return fmt.Errorf("%w: principal must be a positive number no greater than %g", ErrInvalidInput, MaxAmount)
	case !finite(in.AnnualRate) || in.AnnualRate < 0 || in.AnnualRate > MaxAnnualRate:
		return fmt.Errorf("%w: annualRate must be between 0 and %d", ErrInvalidInput, MaxAnnualRate)
	case in.TermMonths < 1 || in.TermMonths > MaxTermMonths:
		return fmt.Errorf("%w: termMonths must be between 1 and %d", ErrInvalidInput, MaxTermMonths)
	case !finite(in.ExtraMonthly) || in.ExtraMonthly < 0 || in.ExtraMonthly > MaxAmount:
		return fmt.Errorf("%w: extraMonthly must be between 0 and %g", ErrInvalidInput, MaxAmount)
	}
	return nil
}

// Payment is one row of an amortization schedule.
type Payment struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Extra     float64 `json:"extra"`
	Balance   float64 `json:"balance"`
}

// Schedule is a complete amortization table with totals.
type Schedule struct {
	MonthlyPayment float64   `json:"monthlyPayment"`
	Months         int       `json:"months"`
	TotalPaid      float64   `json:"totalPaid"`
	TotalInterest  float64   `json:"totalInterest"`
	TotalExtra     float64   `json:"totalExtra"`
	Payments       []Payment `json:"payments,omitempty"`
}

// MonthlyPayment is the level payment P*r/(1-(1+r)^-n) with r the monthly
// rate, or P/n for an interest-free loan. It is not rounded. The
// denominator is computed with Expm1/Log1p so that rates too small to move
// 1+r in float64 still give a finite payment.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return math.NaN()
	}
	r := annualRate / 12 / 100
	if r == 0 {
		return principal / float64(months)
	}
	return principal * r / -math.Expm1(-float64(months)*math.Log1p(r))
}

// Amortize builds the month-by-month schedule. Money is kept in cents:
// each month's interest is rounded half away from zero, and the final
// payment is capped at the remaining balance. Extra principal may retire the
// loan early, in which case the schedule is shorter than the term.
func Amortize(in LoanInput) (Schedule, error) {
	if err := in.Validate(); err != nil {
		return Schedule{}, err
	}

	balance := cents(in.Principal)
	raw := MonthlyPayment(in.Principal, in.AnnualRate, in.TermMonths)
	if !finite(raw) {
		return Schedule{}, fmt.Errorf("%w: monthly payment is not a finite number", ErrInvalidInput)
	}
	payment := cents(raw)
	extra := cents(in.ExtraMonthly)
	rate := decimal.NewFromFloat(in.AnnualRate).Div(decimal.NewFromInt(1200))

	var (
		totalPaid     = decimal.Zero
		totalInterest = decimal.Zero
		totalExtra    = decimal.Zero
		rows          = make([]Payment, 0, in.TermMonths)
	)

	for month := 1; month <= in.TermMonths && balance.IsPositive(); month++ {
		interest := balance.Mul(rate).Round(2)
		principal := payment.Sub(interest)
		if month == in.TermMonths || principal.GreaterThan(balance) {
			principal = balance
		}

		ext := extra
		if remaining := balance.Sub(principal); ext.GreaterThan(remaining) {
			ext = remaining
		}

		balance = balance.Sub(principal).Sub(ext)
		paid := principal.Add(interest).Add(ext)

		totalPaid = totalPaid.Add(paid)
		totalInterest = totalInterest.Add(interest)
		totalExtra = totalExtra.Add(ext)

		rows = append(rows, Payment{
			Month:     month,
			Payment:   principal.Add(interest).InexactFloat64(),
			Principal: principal.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Extra:     ext.InexactFloat64(),
			Balance:   balance.InexactFloat64(),
		})
	}

	return Schedule{
		MonthlyPayment: payment.InexactFloat64(),
		Months:         len(rows),
		TotalPaid:      totalPaid.InexactFloat64(),
		TotalInterest:  totalInterest.InexactFloat64(),
		TotalExtra:     totalExtra.InexactFloat64(),
		Payments:       rows,
	}, nil
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
