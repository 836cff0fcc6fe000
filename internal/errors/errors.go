package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure. It decides both the user-facing
// message and the per-stage propagation policy.
type Kind int

const (
	// KindConfig indicates malformed or inconsistent configuration.
	// Always fatal, always attributed to the config file.
	KindConfig Kind = iota

	// KindPlugin indicates a plugin's own precondition failed. Fatal for
	// archive plugins, skip-that-destination for publish plugins, and
	// try-the-next-plugin for auth plugins.
	KindPlugin

	// KindSkip is not a true error: the plugin voluntarily declined to run
	// for this invocation. Always non-fatal, logged as informational.
	KindSkip

	// KindAuthExhausted indicates every configured auth plugin was tried
	// without producing a passcode.
	KindAuthExhausted

	// KindEncryption indicates the encryption primitive reported failure.
	// Fatal, no partial output is retained.
	KindEncryption

	// KindInterrupted indicates the operator cancelled the run.
	KindInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPlugin:
		return "plugin"
	case KindSkip:
		return "skip"
	case KindAuthExhausted:
		return "auth"
	case KindEncryption:
		return "encryption"
	case KindInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Error is the single tagged error type used throughout the pipeline.
// A kind enum plus structured context fields replaces an error hierarchy.
type Error struct {
	Kind   Kind
	Stage  string   // pipeline stage that produced the error, if any
	Plugin string   // plugin name, if the error came from one
	Key    string   // config key path, for config errors
	Tried  []string // attempted plugin names, for KindAuthExhausted

	Msg string
	Err error // wrapped cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Stage != "" && e.Plugin != "" {
		fmt.Fprintf(&b, "%s.%s: ", e.Stage, e.Plugin)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Configf reports a configuration problem at the given key path.
func Configf(key, format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// Pluginf reports a plugin precondition failure.
func Pluginf(format string, args ...any) *Error {
	return &Error{Kind: KindPlugin, Msg: fmt.Sprintf(format, args...)}
}

// PluginConfigf reports a missing or malformed plugin parameter. It is a
// plugin error that also carries the offending config key.
func PluginConfigf(key, format string, args ...any) *Error {
	return &Error{Kind: KindPlugin, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// Skipf signals that a plugin declines to run for this invocation.
func Skipf(format string, args ...any) *Error {
	return &Error{Kind: KindSkip, Msg: fmt.Sprintf(format, args...)}
}

// Encryptionf reports a failure from the encryption primitive.
func Encryptionf(format string, args ...any) *Error {
	return &Error{Kind: KindEncryption, Msg: fmt.Sprintf(format, args...)}
}

// AllAuthFailed reports that every configured auth plugin was exhausted
// without producing a passcode.
func AllAuthFailed(tried []string) *Error {
	return &Error{
		Kind:  KindAuthExhausted,
		Stage: "auth",
		Tried: tried,
		Msg: fmt.Sprintf("all authentication methods (%s) failed, cannot encrypt archive",
			strings.Join(tried, ", ")),
	}
}

// Interrupted reports operator cancellation.
func Interrupted() *Error {
	return &Error{Kind: KindInterrupted, Msg: "interrupted"}
}

// WithContext returns err annotated with the stage and plugin that produced
// it. Tagged errors keep their kind; anything else becomes a plugin error
// wrapping the cause.
func WithContext(err error, stage, plugin string) *Error {
	var e *Error
	if errors.As(err, &e) {
		annotated := *e
		if annotated.Stage == "" {
			annotated.Stage = stage
		}
		if annotated.Plugin == "" {
			annotated.Plugin = plugin
		}
		return &annotated
	}
	return &Error{Kind: KindPlugin, Stage: stage, Plugin: plugin, Err: err}
}

// KindOf returns the kind of a tagged error, or ok=false for plain errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsSkip reports whether err is a voluntary skip signal.
func IsSkip(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindSkip
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindConfig
}

// IsInterrupted reports whether err is an operator cancellation.
func IsInterrupted(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindInterrupted
}
