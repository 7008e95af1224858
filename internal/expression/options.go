package expression

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Mode selects which derived views accompany a result.
type Mode string

const (
	ModeBasic       Mode = "basic"
	ModeScientific  Mode = "scientific"
	ModeProgrammer  Mode = "programmer"
	ModeStatistical Mode = "statistical"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeBasic, ModeScientific, ModeProgrammer, ModeStatistical}

// ParseMode resolves a mode name. The empty string means basic.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeBasic, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported mode %q: valid modes are %s", s, ModeNames())
}

// ModeNames returns the supported modes joined for error messages.
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// AngleUnit controls how sin, cos and tan interpret their argument.
type AngleUnit string

const (
	Radians AngleUnit = "radians"
	Degrees AngleUnit = "degrees"
)

// ParseAngleUnit resolves an angle unit name. The empty string means radians.
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch AngleUnit(s) {
	case "", Radians:
		return Radians, nil
	case Degrees:
		return Degrees, nil
	}
	return "", fmt.Errorf("unsupported angle unit %q: valid units are radians, degrees", s)
}

const (
	MinPrecision     = 1
	MaxPrecision     = 100
	DefaultPrecision = 10
)

// Options is the per-call evaluation configuration. It is never modified
// during evaluation.
type Options struct {
	Precision int
	AngleUnit AngleUnit
	Variables map[string]float64
	ShowSteps bool
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reservedNames = map[string]struct{}{
	"PI":   {},
	"E":    {},
	"pi":   {},
	"e":    {},
	"math": {},
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	if o.Precision < MinPrecision || o.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between %d and %d, got %d", MinPrecision, MaxPrecision, o.Precision)
	}
	if _, err := ParseAngleUnit(string(o.AngleUnit)); err != nil {
		return err
	}
	for name, v := range o.Variables {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("invalid variable name %q", name)
		}
		if _, ok := reservedNames[name]; ok {
			return fmt.Errorf("variable name %q is reserved", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("variable %q must be a finite number", name)
		}
	}
	return nil
}

// WithDefaults fills unset fields: precision 10 and radians.
func (o Options) WithDefaults() Options {
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.AngleUnit == "" {
		o.AngleUnit = Radians
	}
	return o
}
