package expression

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DerivedViews holds the mode-specific secondary renderings of a result.
type DerivedViews struct {
	Exponential string          `json:"exponential,omitempty"`
	Programmer  *ProgrammerView `json:"programmer,omitempty"`
	Statistics  *StatisticsView `json:"statistics,omitempty"`
}

// ProgrammerView renders the integer truncation of a result in several
// radixes. When Applicable is false only Reason is set.
type ProgrammerView struct {
	Applicable bool   `json:"applicable"`
	Reason     string `json:"reason,omitempty"`
	Integer    *int64 `json:"integer,omitempty"`
	Binary     string `json:"binary,omitempty"`
	Octal      string `json:"octal,omitempty"`
	Hex        string `json:"hex,omitempty"`
}

// StatisticsView lists simple facts about a result.
type StatisticsView struct {
	Finite           bool     `json:"finite"`
	Integer          bool     `json:"integer"`
	Sign             string   `json:"sign"`
	Magnitude        *float64 `json:"magnitude,omitempty"`
	OrderOfMagnitude *int     `json:"orderOfMagnitude,omitempty"`
}

// int64 bounds as float64; 2^63 itself is out of range.
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// Annotate derives the views for mode. Basic mode has none.
func Annotate(v float64, mode Mode) *DerivedViews {
	switch mode {
	case ModeScientific:
		if !isFinite(v) {
			return &DerivedViews{}
		}
		return &DerivedViews{Exponential: Exponential(v)}
	case ModeProgrammer:
		return &DerivedViews{Programmer: programmerView(v)}
	case ModeStatistical:
		return &DerivedViews{Statistics: statisticsView(v)}
	}
	return nil
}

func programmerView(v float64) *ProgrammerView {
	if !isFinite(v) {
		return &ProgrammerView{Reason: "result is not a finite number"}
	}
	t := math.Trunc(v)
	if t < minInt64Float || t >= maxInt64Float {
		return &ProgrammerView{Reason: "result is outside the 64-bit integer range"}
	}
	n := int64(t)
	return &ProgrammerView{
		Applicable: true,
		Integer:    &n,
		Binary:     strconv.FormatInt(n, 2),
		Octal:      strconv.FormatInt(n, 8),
		Hex:        strings.ToUpper(strconv.FormatInt(n, 16)),
	}
}

func statisticsView(v float64) *StatisticsView {
	s := &StatisticsView{
		Finite:  isFinite(v),
		Integer: isFinite(v) && v == math.Trunc(v),
	}
	switch {
	case math.IsNaN(v):
		s.Sign = "nan"
	case v > 0:
		s.Sign = "positive"
	case v < 0:
		s.Sign = "negative"
	default:
		s.Sign = "zero"
	}
	if !s.Finite {
		return s
	}

	mag := math.Abs(v)
	order := 0
	if mag != 0 {
		order = int(leadingExponent(decimal.NewFromFloat(mag)))
	}
	s.Magnitude = &mag
	s.OrderOfMagnitude = &order
	return s
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
