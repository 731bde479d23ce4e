// Package logger provides the scheduler's shared logging setup: a
// lazily-initialized global zerolog logger plus a SchedulerLogger that
// names solve-lifecycle events.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls the global logger's verbosity and rendering.
type Config struct {
	Level  string // debug/info/warn/error/fatal
	Format string // console/json
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// Init configures the global logger. Safe to call once; subsequent
// calls are no-ops, matching the teacher's one-shot setup.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer = os.Stderr
		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing it with defaults on
// first use if Init was never called.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

func Debug() *zerolog.Event { return Get().Debug() }
func Info() *zerolog.Event  { return Get().Info() }
func Warn() *zerolog.Event  { return Get().Warn() }
func Error() *zerolog.Event { return Get().Error() }

func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// SchedulerLogger names the events emitted over one solve's lifetime.
type SchedulerLogger struct {
	base *zerolog.Logger
}

func NewSchedulerLogger() *SchedulerLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &SchedulerLogger{base: &l}
}

// StartSolve logs the beginning of a solve over the given horizon.
func (l *SchedulerLogger) StartSolve(seed int64, residents, shifts int) {
	l.base.Info().
		Int64("seed", seed).
		Int("residents", residents).
		Int("shifts", shifts).
		Msg("starting solve")
}

// PhaseAComplete logs the end of the constructive phase.
func (l *SchedulerLogger) PhaseAComplete(filled, unfilled int, duration time.Duration) {
	l.base.Info().
		Int("filled", filled).
		Int("unfilled_optional", unfilled).
		Dur("duration", duration).
		Msg("phase A complete")
}

// ConstraintViolation logs a legality check failing a proposed
// assignment during search.
func (l *SchedulerLogger) ConstraintViolation(constraint, detail string) {
	l.base.Debug().
		Str("constraint", constraint).
		Str("detail", detail).
		Msg("constraint violation")
}

// MoveAccepted logs an accepted Phase-B neighborhood move.
func (l *SchedulerLogger) MoveAccepted(move string, delta float64, iteration int) {
	l.base.Debug().
		Str("move", move).
		Float64("delta", delta).
		Int("iteration", iteration).
		Msg("move accepted")
}

// SolveComplete logs a seed's final score and the wall time spent
// reaching it.
func (l *SchedulerLogger) SolveComplete(seed int64, score float64, duration time.Duration) {
	l.base.Info().
		Int64("seed", seed).
		Float64("score", score).
		Dur("duration", duration).
		Msg("solve complete")
}
