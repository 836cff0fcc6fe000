// Package errors defines the failure taxonomy for the backup pipeline.
//
// Every failure that crosses a package boundary is a tagged *Error carrying
// a Kind plus structured context (stage, plugin name, config key path).
// The kind decides the propagation policy:
//
//   - KindConfig: fatal, attributed to the configuration file
//   - KindPlugin: fatal for archive plugins, non-fatal for publish plugins,
//     "try the next plugin" for auth plugins
//   - KindSkip: never fatal, a plugin declining to run
//   - KindAuthExhausted: fatal, names every attempted auth plugin
//   - KindEncryption: fatal, no partial output retained
//   - KindInterrupted: operator cancellation, reported as a blank line
//
// Plain errors (filesystem, external tools) are wrapped with WithContext at
// the point where the responsible stage and plugin are known.
package errors
