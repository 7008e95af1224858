package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFunctions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		unit AngleUnit
		want string
	}{
		{name: "radians trig", in: "sin(30)", unit: Radians, want: "math.sin(30)"},
		{name: "degrees trig", in: "sin(90)", unit: Degrees, want: "math.sin((90)*PI/180)"},
		{name: "degrees compound argument", in: "cos(45+45)", unit: Degrees, want: "math.cos((45+45)*PI/180)"},
		{name: "degrees nested", in: "sin(cos(0))", unit: Degrees, want: "math.sin((math.cos((0)*PI/180))*PI/180)"},
		{name: "inverse trig not wrapped", in: "asin(1)", unit: Degrees, want: "math.asin(1)"},
		{name: "log is base ten", in: "log(100)", unit: Radians, want: "math.log10(100)"},
		{name: "ln is natural", in: "ln(E)", unit: Radians, want: "math.ln(E)"},
		{name: "whitespace before paren", in: "sqrt (4)", unit: Radians, want: "math.sqrt (4)"},
		{name: "variadic", in: "max(1, min(2, 3))", unit: Radians, want: "math.max(1, math.min(2, 3))"},
		{name: "already qualified", in: "math.sin(1)", unit: Degrees, want: "math.sin(1)"},
		{name: "unknown function left alone", in: "foo(1)", unit: Radians, want: "foo(1)"},
		{name: "name without call left alone", in: "sin + 1", unit: Radians, want: "sin + 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapFunctions(tc.in, tc.unit))
		})
	}
}

func TestEveryBareNameResolves(t *testing.T) {
	for bare, qualified := range bareNames {
		f, ok := functions[qualified]
		require.Truef(t, ok, "%s maps to missing function %s", bare, qualified)
		assert.Equal(t, qualified, f.Name)
	}
}

func TestFunctionsListing(t *testing.T) {
	list := Functions()
	require.Len(t, list, len(bareNames))
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
	assert.Equal(t, []string{"E", "PI"}, Constants())
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, -2.0, roundHalfUp(-2.5))
	assert.Equal(t, -3.0, roundHalfUp(-2.6))
}
