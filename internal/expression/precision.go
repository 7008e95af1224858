package expression

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundSignificant rounds v to the given number of significant digits,
// halves away from zero, working on the shortest decimal representation of
// v. Zero and non-finite values are returned unchanged.
func RoundSignificant(v float64, digits int) float64 {
	if digits <= 0 || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d := decimal.NewFromFloat(v)
	return d.Round(int32(digits) - 1 - leadingExponent(d)).InexactFloat64()
}

// leadingExponent is the power of ten of the most significant digit of a
// non-zero d. Taking it from the decimal digits avoids Log10 landing just
// below an exact power of ten.
func leadingExponent(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent() - 1
}

// Format renders v the way a calculator display does: plain decimal for
// ordinary magnitudes, exponent notation otherwise.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return Exponential(v)
}

// Exponential renders a finite v as mantissa 'e' signed exponent without
// zero padding, e.g. 3.333e-1 or 1e+21.
func Exponential(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
