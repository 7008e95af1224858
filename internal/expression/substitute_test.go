package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteVariables(t *testing.T) {
	tests := []struct {
		name string
		in   string
		vars map[string]float64
		want string
	}{
		{name: "no bindings", in: "x+1", vars: nil, want: "x+1"},
		{name: "single", in: "x*2", vars: map[string]float64{"x": 3}, want: "3*2"},
		{name: "negative is grouped", in: "x**2", vars: map[string]float64{"x": -3}, want: "(-3)**2"},
		{name: "fraction", in: "r*100", vars: map[string]float64{"r": 0.25}, want: "0.25*100"},
		{name: "longer identifier untouched", in: "rate2*rate", vars: map[string]float64{"rate": 0.5}, want: "rate2*0.5"},
		{name: "prefix identifier untouched", in: "xy + x", vars: map[string]float64{"x": 1}, want: "xy + 1"},
		{name: "qualified function untouched", in: "math.sin(sin)", vars: map[string]float64{"sin": 2}, want: "math.sin(2)"},
		{name: "several", in: "a+b*a", vars: map[string]float64{"a": 1, "b": 2}, want: "1+2*1"},
		{name: "unbound left", in: "a+z", vars: map[string]float64{"a": 1}, want: "1+z"},
		{name: "large value", in: "n", vars: map[string]float64{"n": 1e21}, want: "1e+21"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SubstituteVariables(tc.in, tc.vars))
		})
	}
}
