package plugin

import (
	"context"
	"fmt"

	kerrors "github.com/tmacey/keystash/internal/errors"
)

// Stage is one of the three pipeline phases.
type Stage string

const (
	StageAuth    Stage = "auth"
	StageArchive Stage = "archive"
	StagePublish Stage = "publish"
)

// Stages lists the pipeline phases in execution order.
var Stages = []Stage{StageAuth, StageArchive, StagePublish}

// KnownStage reports whether s names one of the three pipeline phases.
func KnownStage(s Stage) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Subconfig is the per-invocation parameter block passed to a plugin body.
type Subconfig map[string]any

// String returns the string at key, or def when absent.
func (s Subconfig) String(key, def string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return def
}

// Strings returns the zero-or-more string values at key. A single string is
// treated as a one-element list.
func (s Subconfig) Strings(key string) []string {
	switch v := s[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			if str, ok := elem.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// RequireStrings returns the one-or-more string values at key, or a skip
// signal when the key is absent or empty. Plugins use it for parameters
// without which they have nothing to do.
func (s Subconfig) RequireStrings(key string) ([]string, error) {
	values := s.Strings(key)
	if len(values) == 0 {
		return nil, kerrors.Skipf("no '%s' specified", key)
	}
	return values, nil
}

// Authenticator is the auth-stage capability: produce the passcode used to
// encrypt the archive, or decline with a skip signal.
type Authenticator interface {
	Authenticate(ctx context.Context, sub Subconfig) (string, error)
}

// Archiver is the archive-stage capability: populate the staging directory
// with the files to back up.
type Archiver interface {
	Archive(ctx context.Context, sub Subconfig, stagingDir string) error
}

// Publisher is the publish-stage capability: distribute the finished
// workspace to a destination. Success is "did not fail".
type Publisher interface {
	Publish(ctx context.Context, sub Subconfig, workspaceDir string) error
}

// Descriptor identifies one plugin implementation. Created once at
// registration, immutable thereafter.
type Descriptor struct {
	// Name is unique within the stage.
	Name string

	Stage Stage

	// Priority orders default selections, higher first. Only consulted when
	// building stage defaults; user-listed plugins keep their listed order.
	Priority int

	// Summary is a human-readable one-liner for the plugins listing.
	Summary string

	// Impl is the capability implementation matching Stage.
	Impl any
}

// validate checks that the descriptor's implementation matches its declared
// stage. Registration is init-time wiring, so a mismatch is a programming
// error.
func (d Descriptor) validate() error {
	var ok bool
	switch d.Stage {
	case StageAuth:
		_, ok = d.Impl.(Authenticator)
	case StageArchive:
		_, ok = d.Impl.(Archiver)
	case StagePublish:
		_, ok = d.Impl.(Publisher)
	default:
		return fmt.Errorf("plugin %q registered for unknown stage %q", d.Name, d.Stage)
	}
	if !ok {
		return fmt.Errorf("plugin %q does not implement the %s capability", d.Name, d.Stage)
	}
	return nil
}
