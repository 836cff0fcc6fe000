// Package utils provides terminal, filesystem, and system helpers shared
// across keystash commands and plugins.
package utils
