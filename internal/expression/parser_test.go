package expression

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Node {
	t.Helper()
	n, err := Parse(s, DefaultMaxDepth)
	require.NoError(t, err, "parsing %q", s)
	return n
}

func TestParseAndEval(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "42", want: 42},
		{in: ".5", want: 0.5},
		{in: "1e3", want: 1000},
		{in: "2.5E-1", want: 0.25},
		{in: "2+3*4", want: 14},
		{in: "(2+3)*4", want: 20},
		{in: "10-4-3", want: 3},
		{in: "64/4/2", want: 8},
		{in: "7/2", want: 3.5},
		{in: "10%3", want: 1},
		{in: "-7%3", want: -1},
		{in: "2**3**2", want: 512},
		{in: "-2**2", want: -4},
		{in: "(-2)**2", want: 4},
		{in: "2**-1", want: 0.5},
		{in: "+5", want: 5},
		{in: "--5", want: 5},
		{in: "PI", want: math.Pi},
		{in: "E", want: math.E},
		{in: "math.sqrt(16)", want: 4},
		{in: "math.log10(1000)", want: 3},
		{in: "math.ln(E)", want: 1},
		{in: "math.pow(2, 8)", want: 256},
		{in: "math.max(1, 7, 3)", want: 7},
		{in: "math.min(4)", want: 4},
		{in: "math.abs(-3) + math.floor(2.7) + math.ceil(0.1)", want: 6},
		{in: "math.sign(-9)", want: -1},
		{in: "math.trunc(-2.7)", want: -2},
		{in: "math.round(-2.5)", want: -2},
		{in: "math.cbrt(27)", want: 3},
		{in: " 1 +\t2 ", want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := mustParse(t, tc.in).Eval()
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestParseDomainProblemsAreValues(t *testing.T) {
	assert.True(t, math.IsInf(mustParse(t, "1/0").Eval(), 1))
	assert.True(t, math.IsInf(mustParse(t, "-1/0").Eval(), -1))
	assert.True(t, math.IsNaN(mustParse(t, "math.sqrt(-1)").Eval()))
	assert.True(t, math.IsInf(mustParse(t, "math.log10(0)").Eval(), -1))
	assert.True(t, math.IsNaN(mustParse(t, "0/0").Eval()))
	assert.True(t, math.IsInf(mustParse(t, "1e999").Eval(), 1))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind ErrorKind
	}{
		{in: "", kind: KindSyntax},
		{in: "   ", kind: KindSyntax},
		{in: "2+", kind: KindSyntax},
		{in: "(1", kind: KindSyntax},
		{in: "1)", kind: KindSyntax},
		{in: "2 3", kind: KindSyntax},
		{in: "2x", kind: KindSyntax},
		{in: "1 $ 2", kind: KindSyntax},
		{in: "1,2", kind: KindSyntax},
		{in: "math.sin", kind: KindSyntax},
		{in: "math.pow(1)", kind: KindSyntax},
		{in: "math.sin(1, 2)", kind: KindSyntax},
		{in: "math.max()", kind: KindSyntax},
		{in: "math.sin(1", kind: KindSyntax},
		{in: "x+1", kind: KindUnknownIdentifier},
		{in: "sin(1)", kind: KindUnknownIdentifier},
		{in: "process.exit(1)", kind: KindUnknownIdentifier},
		{in: "globalThis", kind: KindUnknownIdentifier},
		{in: "math.constructor(1)", kind: KindUnknownIdentifier},
		{in: "PI(2)", kind: KindUnknownIdentifier},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Parse(tc.in, DefaultMaxDepth)
			require.Error(t, err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr), "expected *Error, got %T", err)
			assert.Equal(t, tc.kind, exprErr.Kind, "message: %s", exprErr.Msg)
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)

	_, err := Parse(deep, 64)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, KindLimit, exprErr.Kind)

	n, err := Parse(deep, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, n.Eval())

	_, err = Parse(strings.Repeat("-", 80)+"1", 64)
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, KindLimit, exprErr.Kind)
}

func TestNodeString(t *testing.T) {
	assert.Equal(t, "(1 + (2 * 3))", mustParse(t, "1+2*3").String())
	assert.Equal(t, "(-(2 ** 2))", mustParse(t, "-2**2").String())
	assert.Equal(t, "math.max(1, PI)", mustParse(t, "math.max(1,PI)").String())
}

func TestNodeDepth(t *testing.T) {
	assert.Equal(t, 1, mustParse(t, "1").Depth())
	assert.Equal(t, 3, mustParse(t, "1+2*3").Depth())
	assert.Equal(t, 2, mustParse(t, "math.sqrt(4)").Depth())
}

// The restricted parser must agree with a general-purpose expression engine
// on plain arithmetic.
func TestParseAgreesWithExprLang(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"(4 - 6) / 8",
		"2 ** 10",
		"3 * (2 - 7) + 4",
		"1.5 * 1.5 - 0.25",
		"100 / 7 / 3",
		"2 ** 0.5 * 2 ** 0.5",
		"((1 + 2) * (3 + 4)) / 5",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			program, err := expr.Compile(in, expr.AsFloat64())
			require.NoError(t, err)
			out, err := expr.Run(program, nil)
			require.NoError(t, err)

			assert.InDelta(t, out.(float64), mustParse(t, in).Eval(), 1e-12)
		})
	}
}
