package dhparser

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	g := NewGrammar(NewNamed("x", T("x")), DefaultConfig())
	assert.Equal(t, zerolog.Disabled, g.logger.GetLevel())
}

func TestSetLoggerRecordsRecoveryEvents(t *testing.T) {
	var buf bytes.Buffer
	site := Series([]Parser{T("a"), T("b")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := g.Parse(context.Background(), "ac")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mandatory marker recovery")
}

func TestSetLoggerRecordsSeedGrowth(t *testing.T) {
	var buf bytes.Buffer
	exprFwd := NewForward()
	num := NewNamed("num", RE(`[0-9]+`))
	expr := NewNamed("expr", Alt(Seq(exprFwd, T("+"), num), num))
	exprFwd.Resolve(expr)

	g := NewGrammar(expr, DefaultConfig())
	g.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := g.Parse(context.Background(), "1+2+3")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "left-recursion seed grown")
}
