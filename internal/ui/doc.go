// Package ui provides semantic text formatting for terminal output.
//
// Formatters degrade gracefully: with color support they colorize, without
// it (NO_COLOR, dumb terminals, pipes) they fall back to plain text with
// optional decoration.
package ui
