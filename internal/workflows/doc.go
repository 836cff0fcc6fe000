// Package workflows orchestrates the backup pipeline: it selects and runs
// the configured plugins stage by stage, enforces each stage's failure
// policy, and manages the workspace lifecycle around encryption and
// publication.
package workflows
