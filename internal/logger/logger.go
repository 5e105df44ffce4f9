package logger

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Logger writes leveled diagnostics. Every line carries the run ID so that
// output from several invocations sharing a terminal or file can be told apart.
type Logger struct {
	logger   *log.Logger
	minLevel Level
	runID    uuid.UUID
}

func NewWithWriter(w io.Writer, minLevel Level) *Logger {
	return NewWithRunID(w, minLevel, uuid.New())
}

func NewWithRunID(w io.Writer, minLevel Level, runID uuid.UUID) *Logger {
	return &Logger{
		logger:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		minLevel: minLevel,
		runID:    runID,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, ERROR+1)
}

func (l *Logger) RunID() uuid.UUID {
	return l.runID
}

func (l *Logger) Debug(msg string, args ...any) {
	l.output(DEBUG, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.output(INFO, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.output(WARN, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.output(ERROR, msg, args...)
}

func (l *Logger) Enabled(level Level) bool {
	return l.minLevel <= level
}

func (l *Logger) output(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.logger.Printf("[%s] run=%s "+msg, append([]any{level, shortID(l.runID)}, args...)...)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q (valid: DEBUG, INFO, WARN, ERROR)", s)
	}
}
