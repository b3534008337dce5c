package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelCount
)

var levelNames = [levelCount]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the level names in any case, plus "warning".
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// StreamLogger writes each level to its own stream. By default debug and
// info go to stdout, warnings and errors to stderr.
type StreamLogger struct {
	mu     sync.Mutex
	min    Level
	prefix string
	sinks  [levelCount]*log.Logger
}

type Option func(*streamConfig)

type streamConfig struct {
	flags   int
	writers [levelCount]io.Writer
}

// WithRoute sends the given levels, or every level when none are named, to w.
func WithRoute(w io.Writer, levels ...Level) Option {
	return func(c *streamConfig) {
		if len(levels) == 0 {
			levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
		}
		for _, l := range levels {
			if l >= 0 && l < levelCount {
				c.writers[l] = w
			}
		}
	}
}

// WithFlags sets the log package flags of every stream.
func WithFlags(flags int) Option {
	return func(c *streamConfig) { c.flags = flags }
}

func NewStreamLogger(prefix string, min Level, opts ...Option) *StreamLogger {
	c := streamConfig{
		flags:   log.LstdFlags | log.Lmicroseconds,
		writers: [levelCount]io.Writer{os.Stdout, os.Stdout, os.Stderr, os.Stderr},
	}
	for _, opt := range opts {
		opt(&c)
	}

	l := &StreamLogger{min: min, prefix: prefix}
	// Levels sharing a writer share a *log.Logger so their lines never interleave.
	shared := make(map[io.Writer]*log.Logger)
	for i, w := range c.writers {
		if shared[w] == nil {
			shared[w] = log.New(w, "", c.flags)
		}
		l.sinks[i] = shared[w]
	}
	return l
}

func (l *StreamLogger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.min
}

func (l *StreamLogger) SetLevel(min Level) {
	l.mu.Lock()
	l.min = min
	l.mu.Unlock()
}

func (l *StreamLogger) DebugEnabled() bool {
	return l.Enabled(LevelDebug)
}

// SetDebug lowers the threshold to debug, or raises it back to info.
// Turning debug off leaves a stricter threshold alone.
func (l *StreamLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case enabled:
		l.min = LevelDebug
	case l.min == LevelDebug:
		l.min = LevelInfo
	}
}

func (l *StreamLogger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Logf writes one line at the given level when it passes the threshold.
func (l *StreamLogger) Logf(level Level, format string, args ...any) {
	if level < 0 || level >= levelCount || !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + ": " + msg
	}
	l.sinks[level].Printf("%-5s %s", level, msg)
}

func (l *StreamLogger) Debugf(format string, args ...any) { l.Logf(LevelDebug, format, args...) }
func (l *StreamLogger) Infof(format string, args ...any)  { l.Logf(LevelInfo, format, args...) }
func (l *StreamLogger) Warnf(format string, args ...any)  { l.Logf(LevelWarn, format, args...) }
func (l *StreamLogger) Errorf(format string, args ...any) { l.Logf(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil. Never returns nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
