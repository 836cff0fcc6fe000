package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

// Logger writes leveled output to the terminal and, when a trace file is
// attached, an unconditional timestamped line to the per-user log.
type Logger struct {
	Verbose bool
	Debug   bool
	Quiet   bool

	trace io.Writer
}

// OpenTraceFile attaches an append-only trace file to the logger, creating
// the parent directory if needed. Every message is recorded there regardless
// of terminal verbosity. Failure to open the file is returned but callers
// may treat it as non-fatal; diagnostics should never block a backup.
func (l *Logger) OpenTraceFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	l.trace = f
	return f, nil
}

// SetTraceWriter attaches an arbitrary trace sink. Used by tests.
func (l *Logger) SetTraceWriter(w io.Writer) { l.trace = w }

func (l Logger) record(level, msg string, args ...any) {
	if l.trace == nil {
		return
	}
	line := fmt.Sprintf(msg, args...)
	fmt.Fprintf(l.trace, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, line)
}

// Tracef records a line in the trace file only. It is the narration channel:
// visible on the terminal solely in debug mode.
func (l Logger) Tracef(msg string, args ...any) {
	l.record("trace", msg, args...)
	if l.Debug {
		fmt.Fprintf(os.Stdout, color.CyanString("[trace] ")+msg+"\n", args...)
	}
}

// Printf is normal user-facing output: always shown unless quiet, always
// recorded in the trace file.
func (l Logger) Printf(msg string, args ...any) {
	l.record("info", msg, args...)
	if !l.Quiet {
		fmt.Fprintf(os.Stdout, msg+"\n", args...)
	}
}

func (l Logger) Infof(msg string, args ...any) {
	l.record("info", msg, args...)
	if l.Verbose || l.Debug {
		fmt.Fprintf(os.Stdout, color.GreenString("[info] ")+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	l.record("debug", msg, args...)
	if l.Debug {
		fmt.Fprintf(os.Stdout, color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	l.record("warn", msg, args...)
	fmt.Fprintf(os.Stderr, color.YellowString("[warn] ")+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	l.record("error", msg, args...)
	fmt.Fprintf(os.Stderr, color.RedString("[error] ")+msg+"\n", args...)
}

// ErrorfAndReturn logs the error and returns it for propagation up the
// command chain.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	l.Errorf(msg, args...)
	return fmt.Errorf(msg, args...)
}
