package arithmetic_test

import (
	"context"
	"testing"

	"github.com/parsekit/dhparser"
	"github.com/parsekit/dhparser/example/arithmetic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalText(t *testing.T, text string) float64 {
	t.Helper()
	g := arithmetic.Build()
	root, err := g.Parse(context.Background(), text)
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(dhparser.SeverityError), "unexpected parse errors for %q: %v", text, root.Errors)
	require.Equal(t, len(text), root.Node.Len(), "expected the whole input to be consumed")

	v, err := arithmetic.Eval(root.Node)
	require.NoError(t, err)
	return v
}

func TestPrecedenceMultiplicationBeforeAddition(t *testing.T) {
	assert.Equal(t, float64(14), evalText(t, "2+3*4"))
}

func TestLeftAssociativeSubtraction(t *testing.T) {
	assert.Equal(t, float64(0), evalText(t, "10-5-5"))
}

func TestLeftAssociativeDivision(t *testing.T) {
	assert.Equal(t, float64(1), evalText(t, "8/4/2"))
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	assert.Equal(t, float64(20), evalText(t, "(2+3)*4"))
}

func TestWhitespaceIsIgnoredBetweenTokens(t *testing.T) {
	// whitespace is only threaded between operator and operand within a
	// binary expression, not as a leading/trailing skip around the whole
	// grammar, so the surrounding text must start and end on a token.
	assert.Equal(t, float64(7), evalText(t, "3 + 4"))
}

func TestNestedParentheses(t *testing.T) {
	assert.Equal(t, float64(9), evalText(t, "((1+2))*3"))
}

func TestSingleNumberIsValidExpression(t *testing.T) {
	assert.Equal(t, float64(42), evalText(t, "42"))
}

func TestDivisionByZeroIsAnEvalError(t *testing.T) {
	g := arithmetic.Build()
	root, err := g.Parse(context.Background(), "1/0")
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(dhparser.SeverityError))

	_, evalErr := arithmetic.Eval(root.Node)
	assert.Error(t, evalErr)
}

func TestUnbalancedParenRecordsAnError(t *testing.T) {
	g := arithmetic.Build()
	root, err := g.Parse(context.Background(), "(1+2")
	require.NoError(t, err)
	assert.True(t, root.HasErrorsAbove(dhparser.SeverityError))
}
