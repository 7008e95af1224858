package expression

import (
	"errors"
	"math"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFallbackAgreesWithGovaluate(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"7 / 2",
		"10 % 4",
		"-3 + 5",
		"0.1 + 0.2",
		"((2))",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			oracle, err := govaluate.NewEvaluableExpression(in)
			require.NoError(t, err)
			want, err := oracle.Evaluate(nil)
			require.NoError(t, err)

			got, err := EvaluateFallback(in)
			require.NoError(t, err)
			assert.InDelta(t, want.(float64), got, 1e-12)
		})
	}
}

func TestEvaluateFallbackDivisionByZeroIsAValue(t *testing.T) {
	v, err := EvaluateFallback("1/0")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))
}

func TestEvaluateFallbackRejects(t *testing.T) {
	for _, in := range []string{
		"process.exit(1)",
		"2^3",
		"2 ** 3",
		"sqrt(4)",
		"",
		"1 +",
		"(1",
		"1..2",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := EvaluateFallback(in)
			require.Error(t, err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr))
			assert.Equal(t, KindSyntax, exprErr.Kind)
		})
	}
}
