package device

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// Guard enforces the fail-fast policy for device calls: any error is logged
// with the call site and the process exits. It is meant for code paths where
// a failed launch or upload leaves no sensible way to continue.
type Guard struct {
	logger zerolog.Logger
	exit   func(code int)
}

// GuardOption configures NewGuard.
type GuardOption func(*Guard)

// WithExit replaces the function called after logging (os.Exit by default).
func WithExit(exit func(code int)) GuardOption {
	return func(g *Guard) {
		g.exit = exit
	}
}

// NewGuard creates a guard that reports through logger.
func NewGuard(logger zerolog.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		logger: logger,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// exitCode is returned to the OS when a guarded call fails.
const exitCode = 134

// Check logs err with the caller's file and line and exits. A nil err is a no-op.
func (g *Guard) Check(err error) {
	if err == nil {
		return
	}
	g.fail(err, 2)
}

func (g *Guard) fail(err error, skip int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file, line = "unknown", 0
	}
	// WithLevel logs at fatal level without zerolog's own os.Exit, so the
	// exit hook stays in control.
	g.logger.WithLevel(zerolog.FatalLevel).
		Str("file", file).
		Int("line", line).
		Err(err).
		Msg("device call failed")
	g.exit(exitCode)
}

var defaultGuard = NewGuard(zerolog.New(os.Stderr).With().Timestamp().Logger())

// Check is Guard.Check on a guard that logs JSON to stderr.
func Check(err error) {
	if err == nil {
		return
	}
	defaultGuard.fail(err, 2)
}
