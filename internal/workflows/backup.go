package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmacey/keystash/internal/archive"
	"github.com/tmacey/keystash/internal/audit"
	"github.com/tmacey/keystash/internal/configs"
	kerrors "github.com/tmacey/keystash/internal/errors"
	logger "github.com/tmacey/keystash/internal/logging"
	"github.com/tmacey/keystash/internal/plugin"
	"github.com/tmacey/keystash/internal/utils"
)

// AuthDefaults is substituted when the user configures no auth plugins.
// The other stages deliberately have no defaults.
var AuthDefaults = []string{"getpass"}

// BackupOptions configures a pipeline run.
type BackupOptions struct {
	// DataDir is where per-run workspaces are created.
	DataDir string

	// AuditPath receives the run's JSONL audit entries; empty disables.
	AuditPath string

	// Interactive enables the archive-contents confirmation prompt.
	Interactive bool
}

// BackupResult describes a completed run.
type BackupResult struct {
	// Workspace is the run's workspace directory.
	Workspace string

	// WorkspaceKept is true when the workspace was retained because the
	// encrypted archive was not distributed anywhere.
	WorkspaceKept bool

	// Published lists publish plugins that delivered every destination.
	Published []string

	// PublishFailures collects per-destination failures; they never abort
	// the run.
	PublishFailures []error
}

// Backup runs the three-stage pipeline: authenticate, archive (staging,
// confirmation, encryption), publish.
//
// The passcode is obtained before any archive I/O so that an
// authentication failure never leaves unencrypted state on disk. Archive
// and encryption failures abort the run; publish failures are isolated to
// their destination. On every fatal path the workspace is removed before
// returning. After a successful run it is removed too, unless nothing was
// distributed, in which case the local ciphertext is the only copy and is
// kept.
func Backup(ctx context.Context, log logger.Logger, cfg *configs.Config, opts BackupOptions) (*BackupResult, error) {
	runID := audit.NewRunID()
	exec := &plugin.Executor{Log: log}

	result, err := run(ctx, log, cfg, opts, exec, runID)
	if isCancellation(err) {
		err = kerrors.Interrupted()
	}

	outcome := "success"
	if err != nil {
		outcome = err.Error()
	}
	audit.Log(opts.AuditPath, audit.Entry{RunID: runID, Operation: "run_finish", Outcome: outcome})
	return result, err
}

func run(ctx context.Context, log logger.Logger, cfg *configs.Config, opts BackupOptions, exec *plugin.Executor, runID string) (result *BackupResult, err error) {
	// Auth runs to completion before the workspace exists, so a bad
	// passcode choice can never strand cleartext on disk.
	log.Tracef("getting a passcode for the archive")
	passcode, err := queryPasscode(ctx, log, cfg, exec, runID, opts.AuditPath)
	if err != nil {
		return nil, err
	}

	log.Tracef("building the archive")
	ws, err := buildArchive(ctx, log, cfg, opts, exec, runID)
	if ws != nil {
		// Removal is unconditional on failure; success decides below.
		defer func() {
			if result != nil && result.WorkspaceKept {
				return
			}
			if rmErr := ws.Remove(); rmErr != nil && err == nil {
				err = fmt.Errorf("removing workspace: %w", rmErr)
			}
		}()
	}
	if err != nil {
		return nil, err
	}

	if err := confirmContents(ctx, log, ws, opts); err != nil {
		return nil, err
	}

	log.Tracef("encrypting the archive")
	if err := archive.Encrypt(ws, passcode); err != nil {
		return nil, err
	}
	log.Infof("local archive '%s' created", ws.Root)

	result = &BackupResult{Workspace: ws.Root}
	if err := publishArchive(ctx, log, cfg, exec, ws, result, runID, opts.AuditPath); err != nil {
		return nil, err
	}

	if len(result.Published) == 0 {
		// The ciphertext is the only copy; keep it.
		result.WorkspaceKept = true
		if len(result.PublishFailures) == 0 {
			log.Warnf("No automated publishing rules found.\nMake copies of the archive yourself:\n%s", ws.Root)
		}
	}
	return result, nil
}

// queryPasscode tries each configured auth plugin in order and returns the
// first passcode produced. Skips and failures advance to the next plugin;
// exhausting the list is fatal.
func queryPasscode(ctx context.Context, log logger.Logger, cfg *configs.Config, exec *plugin.Executor, runID, auditPath string) (string, error) {
	selected, err := plugin.Select(cfg, plugin.StageAuth, AuthDefaults)
	if err != nil {
		return "", err
	}

	tried := make([]string, 0, len(selected))
	for _, d := range selected {
		tried = append(tried, d.Name)

		results := exec.Run(ctx, d, subconfigsFor(cfg, d), "")
		for _, r := range results {
			// An interrupt mid-prompt is a cancellation, not an
			// authentication failure; exit with no further output.
			if r.Status == plugin.StatusFailed && isCancellation(r.Err) {
				return "", r.Err
			}
			recordResult(auditPath, runID, r)
			switch r.Status {
			case plugin.StatusSuccess:
				return r.Value, nil
			case plugin.StatusFailed:
				log.Warnf("'%s' authentication failed: %v", d.Name, r.Err)
			}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", kerrors.AllAuthFailed(tried)
}

// buildArchive creates the workspace and runs every archive plugin against
// its staging tree. Any plugin failure aborts the run: a partial archive
// is never encrypted or published.
func buildArchive(ctx context.Context, log logger.Logger, cfg *configs.Config, opts BackupOptions, exec *plugin.Executor, runID string) (*archive.Workspace, error) {
	selected, err := plugin.Select(cfg, plugin.StageArchive, nil)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, kerrors.Configf("plugins.archive", "'plugins.archive' not specified, nothing to do")
	}

	ws, err := archive.NewWorkspace(opts.DataDir, cfg.ArchiveName)
	if err != nil {
		return nil, err
	}
	audit.Log(opts.AuditPath, audit.Entry{RunID: runID, Operation: "run_start", Workspace: ws.Root})

	for _, d := range selected {
		results := exec.Run(ctx, d, subconfigsFor(cfg, d), ws.Staging)
		for _, r := range results {
			recordResult(opts.AuditPath, runID, r)
			if r.Status == plugin.StatusFailed {
				return ws, r.Err
			}
		}
	}
	if ctx.Err() != nil {
		return ws, ctx.Err()
	}
	return ws, nil
}

// confirmContents shows the operator every staged file and waits for
// approval before anything is encrypted or leaves the machine.
func confirmContents(ctx context.Context, log logger.Logger, ws *archive.Workspace, opts BackupOptions) error {
	files, err := utils.ListFiles(ws.Staging)
	if err != nil {
		return err
	}

	log.Printf("The following files were included in the archive:")
	for _, f := range files {
		log.Printf("    %s", f)
	}
	log.Printf("")

	if !opts.Interactive || !utils.IsTerminal() {
		return nil
	}
	return utils.ConfirmContext(ctx, "Is this correct? <Enter> to continue, <Ctrl-C> to cancel: ")
}

// publishArchive fans the finished workspace out to every publish plugin.
// Destinations are independent and best-effort: one failure is reported
// and the rest still run.
func publishArchive(ctx context.Context, log logger.Logger, cfg *configs.Config, exec *plugin.Executor, ws *archive.Workspace, result *BackupResult, runID, auditPath string) error {
	selected, err := plugin.Select(cfg, plugin.StagePublish, nil)
	if err != nil {
		return err
	}

	for _, d := range selected {
		delivered, failed := false, false
		results := exec.Run(ctx, d, subconfigsFor(cfg, d), ws.Root)
		for _, r := range results {
			if r.Status == plugin.StatusFailed && isCancellation(r.Err) {
				return r.Err
			}
			recordResult(auditPath, runID, r)
			switch r.Status {
			case plugin.StatusSuccess:
				delivered = true
			case plugin.StatusFailed:
				failed = true
				log.Errorf("publishing via '%s' failed: %v", d.Name, r.Err)
				result.PublishFailures = append(result.PublishFailures, r.Err)
			}
		}
		if delivered && !failed {
			result.Published = append(result.Published, d.Name)
			log.Printf("Archive published via '%s'.", d.Name)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func subconfigsFor(cfg *configs.Config, d plugin.Descriptor) []plugin.Subconfig {
	raw := cfg.Subconfigs(string(d.Stage), d.Name)
	out := make([]plugin.Subconfig, len(raw))
	for i, m := range raw {
		out[i] = plugin.Subconfig(m)
	}
	return out
}

func recordResult(auditPath, runID string, r plugin.Result) {
	entry := audit.Entry{
		RunID:     runID,
		Operation: "plugin",
		Stage:     string(r.Stage),
		Plugin:    r.Plugin,
	}
	switch r.Status {
	case plugin.StatusSuccess:
		entry.Outcome = "success"
	case plugin.StatusSkipped:
		entry.Outcome = "skipped"
		entry.Reason = r.Reason
	case plugin.StatusFailed:
		entry.Outcome = "failed"
		entry.Reason = r.Err.Error()
	}
	audit.Log(auditPath, entry)
}
