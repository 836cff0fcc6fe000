package plugin

// The registry replaces the original dynamic entry-point discovery with
// explicit init-time registration: each built-in plugin package calls
// Register from its init function, and external capability is compiled in.

var (
	registered map[Stage][]Descriptor
	discovered map[Stage]map[string]Descriptor
)

func init() {
	registered = make(map[Stage][]Descriptor)
	discovered = make(map[Stage]map[string]Descriptor)
}

// Register adds a plugin to its stage's registry. It is meant to be called
// from package init functions and panics on a descriptor whose
// implementation does not satisfy its stage contract.
func Register(d Descriptor) {
	if err := d.validate(); err != nil {
		panic(err)
	}
	registered[d.Stage] = append(registered[d.Stage], d)
	// Invalidate the memoized view for this stage.
	delete(discovered, d.Stage)
}

// Discover returns the installed plugins for a stage as a name-to-descriptor
// mapping, memoized for the life of the process. If two registrations share
// a name, the last one wins.
func Discover(stage Stage) map[string]Descriptor {
	if cached, ok := discovered[stage]; ok {
		return cached
	}
	plugins := make(map[string]Descriptor, len(registered[stage]))
	for _, d := range registered[stage] {
		plugins[d.Name] = d
	}
	discovered[stage] = plugins
	return plugins
}

// Installed returns the stage's plugins in registration order, with
// duplicate names collapsed to the surviving registration.
func Installed(stage Stage) []Descriptor {
	byName := Discover(stage)
	seen := make(map[string]bool, len(byName))
	out := make([]Descriptor, 0, len(byName))
	for _, d := range registered[stage] {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, byName[d.Name])
	}
	return out
}
