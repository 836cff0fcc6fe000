// Package plugins links the built-in plugin set into the binary. Importing
// it triggers each plugin package's init-time registration.
package plugins

import (
	_ "github.com/tmacey/keystash/internal/plugins/file"
	_ "github.com/tmacey/keystash/internal/plugins/getpass"
	_ "github.com/tmacey/keystash/internal/plugins/gpgkeys"
	_ "github.com/tmacey/keystash/internal/plugins/mount"
	_ "github.com/tmacey/keystash/internal/plugins/scp"
	_ "github.com/tmacey/keystash/internal/plugins/sshkeys"
)
