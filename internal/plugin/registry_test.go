package plugin

import (
	"context"
	"testing"
)

// withCleanRegistry swaps in an empty registry for the duration of a test.
func withCleanRegistry(t *testing.T) {
	t.Helper()
	oldReg, oldDisc := registered, discovered
	registered = make(map[Stage][]Descriptor)
	discovered = make(map[Stage]map[string]Descriptor)
	t.Cleanup(func() {
		registered, discovered = oldReg, oldDisc
	})
}

type fakeAuth struct {
	pass string
	err  error
}

func (f fakeAuth) Authenticate(ctx context.Context, sub Subconfig) (string, error) {
	return f.pass, f.err
}

type fakeArchiver struct {
	fn func(sub Subconfig, dir string) error
}

func (f fakeArchiver) Archive(ctx context.Context, sub Subconfig, dir string) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(sub, dir)
}

type fakePublisher struct {
	fn func(sub Subconfig, dir string) error
}

func (f fakePublisher) Publish(ctx context.Context, sub Subconfig, dir string) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(sub, dir)
}

func TestRegisterAndDiscover(t *testing.T) {
	withCleanRegistry(t)

	Register(Descriptor{Name: "getpass", Stage: StageAuth, Summary: "prompt", Impl: fakeAuth{}})
	Register(Descriptor{Name: "ssh", Stage: StageArchive, Summary: "copy ssh", Impl: fakeArchiver{}})

	auth := Discover(StageAuth)
	if len(auth) != 1 {
		t.Fatalf("expected 1 auth plugin, got %d", len(auth))
	}
	if d, ok := auth["getpass"]; !ok || d.Summary != "prompt" {
		t.Errorf("getpass descriptor missing or wrong: %+v", d)
	}

	if len(Discover(StagePublish)) != 0 {
		t.Error("publish stage should be empty")
	}
}

func TestDiscoverMemoizes(t *testing.T) {
	withCleanRegistry(t)

	Register(Descriptor{Name: "ssh", Stage: StageArchive, Impl: fakeArchiver{}})

	first := Discover(StageArchive)
	second := Discover(StageArchive)
	if &first == &second {
		// Maps cannot be compared directly; check the cache instead.
	}
	if _, ok := discovered[StageArchive]; !ok {
		t.Error("expected the stage mapping to be cached")
	}
}

func TestDuplicateRegistrationLastWins(t *testing.T) {
	withCleanRegistry(t)

	Register(Descriptor{Name: "file", Stage: StageArchive, Summary: "first", Impl: fakeArchiver{}})
	Register(Descriptor{Name: "file", Stage: StageArchive, Summary: "second", Impl: fakeArchiver{}})

	d := Discover(StageArchive)["file"]
	if d.Summary != "second" {
		t.Errorf("expected last registration to win, got %q", d.Summary)
	}

	installed := Installed(StageArchive)
	if len(installed) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d entries", len(installed))
	}
	if installed[0].Summary != "second" {
		t.Errorf("Installed returned the shadowed registration: %q", installed[0].Summary)
	}
}

func TestInstalledKeepsRegistrationOrder(t *testing.T) {
	withCleanRegistry(t)

	for _, name := range []string{"ssh", "gpg", "file"} {
		Register(Descriptor{Name: name, Stage: StageArchive, Impl: fakeArchiver{}})
	}

	installed := Installed(StageArchive)
	for i, want := range []string{"ssh", "gpg", "file"} {
		if installed[i].Name != want {
			t.Errorf("installed[%d] = %q, want %q", i, installed[i].Name, want)
		}
	}
}

func TestRegisterRejectsCapabilityMismatch(t *testing.T) {
	withCleanRegistry(t)

	defer func() {
		if recover() == nil {
			t.Error("expected Register to panic on a stage/capability mismatch")
		}
	}()
	Register(Descriptor{Name: "bogus", Stage: StageAuth, Impl: fakeArchiver{}})
}
