package plugin

import (
	"context"

	kerrors "github.com/tmacey/keystash/internal/errors"
	logger "github.com/tmacey/keystash/internal/logging"
)

// Status tags the outcome of one plugin invocation.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

// Result is the outcome of invoking a plugin once against one subconfig.
type Result struct {
	Plugin string
	Stage  Stage
	Status Status

	// Value is the passcode for successful auth invocations.
	Value string

	// Reason explains a skipped invocation.
	Reason string

	// Err is the annotated failure for failed invocations.
	Err error
}

// Executor invokes plugins, isolating failures to a single invocation.
type Executor struct {
	Log logger.Logger
}

// Run invokes the plugin once per subconfig. A plugin with no subconfigs
// runs exactly once with an empty one. A skip signal from the plugin body
// records a Skipped result and moves on; any other error records a Failed
// result annotated with the stage and plugin. Whether a failure aborts the
// stage is the caller's policy, not the executor's.
//
// stageArg is the staging directory for archive plugins and the workspace
// path for publish plugins; it is ignored by auth plugins.
func (x *Executor) Run(ctx context.Context, d Descriptor, subs []Subconfig, stageArg string) []Result {
	if len(subs) == 0 {
		subs = []Subconfig{{}}
	}

	results := make([]Result, 0, len(subs))
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}

		x.Log.Tracef("running the '%s.%s' plugin", d.Stage, d.Name)
		value, err := x.invoke(ctx, d, sub, stageArg)

		switch {
		case err == nil:
			results = append(results, Result{
				Plugin: d.Name, Stage: d.Stage, Status: StatusSuccess, Value: value,
			})
		case kerrors.IsSkip(err):
			reason := kerrors.WithContext(err, string(d.Stage), d.Name)
			x.Log.Printf("Skipping the '%s.%s' plugin: %s", d.Stage, d.Name, reason.Msg)
			results = append(results, Result{
				Plugin: d.Name, Stage: d.Stage, Status: StatusSkipped, Reason: reason.Msg,
			})
		default:
			annotated := kerrors.WithContext(err, string(d.Stage), d.Name)
			results = append(results, Result{
				Plugin: d.Name, Stage: d.Stage, Status: StatusFailed, Err: annotated,
			})
		}
	}
	return results
}

func (x *Executor) invoke(ctx context.Context, d Descriptor, sub Subconfig, stageArg string) (string, error) {
	switch impl := d.Impl.(type) {
	case Authenticator:
		return impl.Authenticate(ctx, sub)
	case Archiver:
		return "", impl.Archive(ctx, sub, stageArg)
	case Publisher:
		return "", impl.Publish(ctx, sub, stageArg)
	}
	// Register validates capabilities, so this is unreachable for
	// registered plugins.
	return "", kerrors.Pluginf("plugin %q has no %s capability", d.Name, d.Stage)
}
