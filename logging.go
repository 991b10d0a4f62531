package dhparser

import (
	"os"

	"github.com/rs/zerolog"
)

// NewConsoleLogger builds a human-readable zerolog logger writing to
// stderr, for interactive debugging of a single Grammar (SetLogger).
// Library consumers embedding dhparser in a service should instead build
// their own zerolog.Logger (e.g. JSON to a collector) and pass it to
// SetLogger directly; nothing here is required for normal use, since a
// fresh Grammar defaults to zerolog.Nop().
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// logRecovery emits a debug-level record for a skip/resume recovery action
// (§4.5), tagged with the run ID so overlapping parses stay distinguishable
// in shared log output (§5).
func (g *Grammar) logRecovery(kind string, loc int, recovered bool) {
	g.logger.Debug().
		Str("run", g.runID).
		Str("kind", kind).
		Int("loc", loc).
		Bool("recovered", recovered).
		Msg("mandatory marker recovery")
}

// logSeedGrowth emits a debug-level record for one seed-and-grow iteration
// (§4.4), the left-recursion counterpart to logRecovery.
func (g *Grammar) logSeedGrowth(symbol string, loc, newLen int) {
	g.logger.Debug().
		Str("run", g.runID).
		Str("symbol", symbol).
		Int("loc", loc).
		Int("len", newLen).
		Msg("left-recursion seed grown")
}
