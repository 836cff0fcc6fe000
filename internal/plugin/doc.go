// Package plugin implements the extensible execution model behind the
// backup pipeline: a registry of stage-tagged plugins, a selector that
// resolves the user's configured plugin lists against it, and an executor
// that invokes one plugin per subconfig with per-invocation failure
// isolation.
//
// Plugins are compiled in. A plugin package registers a Descriptor from its
// init function:
//
//	func init() {
//		plugin.Register(plugin.Descriptor{
//			Name:    "ssh",
//			Stage:   plugin.StageArchive,
//			Summary: "Copy ~/.ssh into the archive.",
//			Impl:    sshArchiver{},
//		})
//	}
//
// The three capability contracts are closed: Authenticator produces the
// encryption passcode, Archiver populates the staging tree, Publisher
// distributes the finished workspace.
package plugin
