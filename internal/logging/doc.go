// Package logger provides leveled output for keystash commands.
//
// Terminal verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows everything, including per-plugin trace narration
//
// Warnings and errors are always shown. Independently of the terminal, a
// logger may carry an append-only trace file (kept next to the user's
// config) which receives every message with a timestamp. Secrets are never
// passed to the logger.
//
// Commands create a logger in their PersistentPreRun and thread it into the
// pipeline:
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	closer, _ := log.OpenTraceFile(settings.LogPath)
//	defer closer.Close()
package logger
