package finance

import (
	"fmt"
	"math"
)

const MaxYears = 100

// compoundingFrequencies are the accepted compounding periods per year.
var compoundingFrequencies = map[int]string{
	1:   "annually",
	2:   "semiannually",
	4:   "quarterly",
	12:  "monthly",
	365: "daily",
}

// GrowthInput describes a savings balance growing at a fixed nominal rate
// with optional end-of-month contributions.
type GrowthInput struct {
	Principal           float64 `json:"principal"`
	AnnualRate          float64 `json:"annualRate"`
	CompoundsPerYear    int     `json:"compoundsPerYear"`
	Years               int     `json:"years"`
	MonthlyContribution float64 `json:"monthlyContribution"`
}

// Validate reports the first out-of-range field.
func (in GrowthInput) Validate() error {
	switch {
	case !finite(in.Principal) || in.Principal < 0 || in.Principal > MaxAmount:
		return fmt.Errorf("%w: principal must be between 0 and %g", ErrInvalidInput, MaxAmount)
	case !finite(in.AnnualRate) || in.AnnualRate < 0 || in.AnnualRate > MaxAnnualRate:
		return fmt.Errorf("%w: annualRate must be between 0 and %d", ErrInvalidInput, MaxAnnualRate)
	case compoundingFrequencies[in.CompoundsPerYear] == "":
		return fmt.Errorf("%w: compoundsPerYear must be one of 1, 2, 4, 12, 365", ErrInvalidInput)
	case in.Years < 1 || in.Years > MaxYears:
		return fmt.Errorf("%w: years must be between 1 and %d", ErrInvalidInput, MaxYears)
	case !finite(in.MonthlyContribution) || in.MonthlyContribution < 0 || in.MonthlyContribution > MaxAmount:
		return fmt.Errorf("%w: monthlyContribution must be between 0 and %g", ErrInvalidInput, MaxAmount)
	}
	return nil
}

// YearBalance is the position at the end of a year.
type YearBalance struct {
	Year          int     `json:"year"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// Growth is the result of CompoundGrowth.
type Growth struct {
	FinalBalance       float64       `json:"finalBalance"`
	TotalContributions float64       `json:"totalContributions"`
	InterestEarned     float64       `json:"interestEarned"`
	Compounding        string        `json:"compounding"`
	Years              []YearBalance `json:"years"`
}

// CompoundGrowth projects the balance year by year. The nominal rate is
// converted to an equivalent monthly factor (1+r/n)^(n/12), so with no
// contributions the final balance equals P(1+r/n)^(nt).
func CompoundGrowth(in GrowthInput) (Growth, error) {
	if err := in.Validate(); err != nil {
		return Growth{}, err
	}

	n := float64(in.CompoundsPerYear)
	monthly := math.Pow(1+in.AnnualRate/100/n, n/12)

	balance := in.Principal
	contributed := in.Principal
	years := make([]YearBalance, 0, in.Years)

	for year := 1; year <= in.Years; year++ {
		for m := 0; m < 12; m++ {
			balance = balance*monthly + in.MonthlyContribution
			contributed += in.MonthlyContribution
		}
		if !finite(balance) {
			return Growth{}, fmt.Errorf("%w: balance overflows in year %d", ErrInvalidInput, year)
		}
		years = append(years, YearBalance{
			Year:          year,
			Balance:       cents(balance).InexactFloat64(),
			Contributions: cents(contributed).InexactFloat64(),
			Interest:      cents(balance - contributed).InexactFloat64(),
		})
	}

	return Growth{
		FinalBalance:       cents(balance).InexactFloat64(),
		TotalContributions: cents(contributed).InexactFloat64(),
		InterestEarned:     cents(balance - contributed).InexactFloat64(),
		Compounding:        compoundingFrequencies[in.CompoundsPerYear],
		Years:              years,
	}, nil
}
