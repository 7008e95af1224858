package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	assert.InDelta(t, 1199.10, MonthlyPayment(200000, 6, 360), 0.005)
	assert.InDelta(t, 536.82, MonthlyPayment(100000, 5, 360), 0.005)
	assert.Equal(t, 100.0, MonthlyPayment(1200, 0, 12))
	assert.True(t, math.IsNaN(MonthlyPayment(1000, 5, 0)))
}

func TestAmortizeThirtyYearMortgage(t *testing.T) {
	s, err := Amortize(LoanInput{Principal: 200000, AnnualRate: 6, TermMonths: 360})
	require.NoError(t, err)

	assert.Equal(t, 1199.10, s.MonthlyPayment)
	assert.Equal(t, 360, s.Months)
	require.Len(t, s.Payments, 360)

	first := s.Payments[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 1000.0, first.Interest)
	assert.Equal(t, 199.10, first.Principal)
	assert.Equal(t, 199800.90, first.Balance)

	last := s.Payments[len(s.Payments)-1]
	assert.Equal(t, 0.0, last.Balance)

	assert.InDelta(t, 200000, s.TotalPaid-s.TotalInterest, 0.001)
	assert.InDelta(t, 231676, s.TotalInterest, 10)
	assert.Zero(t, s.TotalExtra)
}

func TestAmortizeInterestFree(t *testing.T) {
	s, err := Amortize(LoanInput{Principal: 1000, AnnualRate: 0, TermMonths: 3})
	require.NoError(t, err)

	require.Len(t, s.Payments, 3)
	assert.Equal(t, 333.33, s.Payments[0].Payment)
	assert.Equal(t, 333.33, s.Payments[1].Payment)
	assert.Equal(t, 333.34, s.Payments[2].Payment)
	assert.Equal(t, 0.0, s.Payments[2].Balance)
	assert.Equal(t, 1000.0, s.TotalPaid)
	assert.Zero(t, s.TotalInterest)
}

func TestAmortizeExtraPaymentsRetireEarly(t *testing.T) {
	base, err := Amortize(LoanInput{Principal: 100000, AnnualRate: 5, TermMonths: 360})
	require.NoError(t, err)

	fast, err := Amortize(LoanInput{Principal: 100000, AnnualRate: 5, TermMonths: 360, ExtraMonthly: 200})
	require.NoError(t, err)

	assert.Less(t, fast.Months, base.Months)
	assert.Less(t, fast.TotalInterest, base.TotalInterest)
	assert.Positive(t, fast.TotalExtra)
	assert.Equal(t, 0.0, fast.Payments[len(fast.Payments)-1].Balance)
	assert.InDelta(t, 100000, fast.TotalPaid-fast.TotalInterest, 0.001)

	for _, p := range fast.Payments {
		assert.GreaterOrEqual(t, p.Balance, 0.0, "month %d", p.Month)
	}
}

func TestAmortizeValidation(t *testing.T) {
	tests := []struct {
		name string
		in   LoanInput
	}{
		{name: "zero principal", in: LoanInput{Principal: 0, AnnualRate: 5, TermMonths: 12}},
		{name: "negative rate", in: LoanInput{Principal: 1000, AnnualRate: -1, TermMonths: 12}},
		{name: "rate too high", in: LoanInput{Principal: 1000, AnnualRate: 101, TermMonths: 12}},
		{name: "no term", in: LoanInput{Principal: 1000, AnnualRate: 5}},
		{name: "term too long", in: LoanInput{Principal: 1000, AnnualRate: 5, TermMonths: 601}},
		{name: "negative extra", in: LoanInput{Principal: 1000, AnnualRate: 5, TermMonths: 12, ExtraMonthly: -1}},
		{name: "infinite principal", in: LoanInput{Principal: math.Inf(1), AnnualRate: 5, TermMonths: 12}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Amortize(tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAmortizeVanishingRateStaysFinite(t *testing.T) {
	assert.InDelta(t, 1000.0/12, MonthlyPayment(1000, 1e-15, 12), 1e-9)

	s, err := Amortize(LoanInput{Principal: 1000, AnnualRate: 1e-15, TermMonths: 12})
	require.NoError(t, err)

	assert.Equal(t, 83.33, s.MonthlyPayment)
	assert.Equal(t, 12, s.Months)
	assert.Equal(t, 1000.0, s.TotalPaid)
	assert.Zero(t, s.TotalInterest)
}

func TestAmortizeRejectsHugeAmounts(t *testing.T) {
	for name, in := range map[string]LoanInput{
		"principal": {Principal: 1e308, AnnualRate: 5, TermMonths: 12},
		"extra":     {Principal: 1000, AnnualRate: 5, TermMonths: 12, ExtraMonthly: 1e300},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Amortize(in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
