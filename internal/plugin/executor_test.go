package plugin

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/tmacey/keystash/internal/errors"
	logger "github.com/tmacey/keystash/internal/logging"
)

func newTestExecutor() *Executor {
	return &Executor{Log: logger.Logger{Quiet: true}}
}

func TestRunWithoutSubconfigsRunsOnce(t *testing.T) {
	var calls int
	d := Descriptor{
		Name:  "ssh",
		Stage: StageArchive,
		Impl: fakeArchiver{fn: func(sub Subconfig, dir string) error {
			calls++
			if len(sub) != 0 {
				t.Errorf("expected an empty subconfig, got %v", sub)
			}
			if dir != "/staging" {
				t.Errorf("stage arg = %q", dir)
			}
			return nil
		}},
	}

	results := newTestExecutor().Run(context.Background(), d, nil, "/staging")

	if calls != 1 {
		t.Errorf("expected exactly one invocation, got %d", calls)
	}
	if len(results) != 1 || results[0].Status != StatusSuccess {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRunFansOutPerSubconfig(t *testing.T) {
	var seen []string
	d := Descriptor{
		Name:  "file",
		Stage: StageArchive,
		Impl: fakeArchiver{fn: func(sub Subconfig, dir string) error {
			seen = append(seen, sub.String("src", ""))
			return nil
		}},
	}

	subs := []Subconfig{{"src": "/tmp/a"}, {"src": "/tmp/b"}, {"src": "/tmp/c"}}
	results := newTestExecutor().Run(context.Background(), d, subs, "/staging")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"/tmp/a", "/tmp/b", "/tmp/c"} {
		if seen[i] != want {
			t.Errorf("invocation %d saw %q, want %q", i, seen[i], want)
		}
	}
}

func TestRunIsolatesSkipsToOneInvocation(t *testing.T) {
	d := Descriptor{
		Name:  "file",
		Stage: StageArchive,
		Impl: fakeArchiver{fn: func(sub Subconfig, dir string) error {
			if sub.String("src", "") == "" {
				return kerrors.Skipf("no 'src' specified")
			}
			return nil
		}},
	}

	subs := []Subconfig{{}, {"src": "/tmp/a"}}
	results := newTestExecutor().Run(context.Background(), d, subs, "/staging")

	if results[0].Status != StatusSkipped {
		t.Errorf("first invocation should be skipped, got %+v", results[0])
	}
	if results[0].Reason != "no 'src' specified" {
		t.Errorf("skip reason = %q", results[0].Reason)
	}
	if results[1].Status != StatusSuccess {
		t.Errorf("skip must not abort later invocations: %+v", results[1])
	}
}

func TestRunAnnotatesFailures(t *testing.T) {
	cause := errors.New("disk full")
	d := Descriptor{
		Name:  "gpg",
		Stage: StageArchive,
		Impl:  fakeArchiver{fn: func(sub Subconfig, dir string) error { return cause }},
	}

	results := newTestExecutor().Run(context.Background(), d, nil, "/staging")

	if results[0].Status != StatusFailed {
		t.Fatalf("expected a failed result, got %+v", results[0])
	}
	var tagged *kerrors.Error
	if !errors.As(results[0].Err, &tagged) {
		t.Fatal("failure should be a tagged error")
	}
	if tagged.Stage != "archive" || tagged.Plugin != "gpg" {
		t.Errorf("failure not attributed: stage=%q plugin=%q", tagged.Stage, tagged.Plugin)
	}
	if !errors.Is(results[0].Err, cause) {
		t.Error("original cause lost in annotation")
	}
}

func TestRunReturnsAuthValue(t *testing.T) {
	d := Descriptor{Name: "getpass", Stage: StageAuth, Impl: fakeAuth{pass: "secret123"}}

	results := newTestExecutor().Run(context.Background(), d, nil, "")

	if results[0].Status != StatusSuccess || results[0].Value != "secret123" {
		t.Errorf("unexpected auth result: %+v", results[0])
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	d := Descriptor{
		Name:  "file",
		Stage: StageArchive,
		Impl: fakeArchiver{fn: func(sub Subconfig, dir string) error {
			calls++
			cancel()
			return nil
		}},
	}

	subs := []Subconfig{{"src": "a"}, {"src": "b"}}
	results := newTestExecutor().Run(ctx, d, subs, "/staging")

	if calls != 1 {
		t.Errorf("expected the second invocation to be suppressed, got %d calls", calls)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSubconfigHelpers(t *testing.T) {
	sub := Subconfig{
		"host":   []any{"a.example.com", "b.example.com"},
		"drive":  "/mnt/usb",
		"field":  "passcode",
		"number": int64(3),
	}

	if got := sub.String("field", "fallback"); got != "passcode" {
		t.Errorf("String = %q", got)
	}
	if got := sub.String("absent", "fallback"); got != "fallback" {
		t.Errorf("String default = %q", got)
	}
	if got := sub.Strings("host"); len(got) != 2 {
		t.Errorf("Strings(host) = %v", got)
	}
	if got := sub.Strings("drive"); len(got) != 1 || got[0] != "/mnt/usb" {
		t.Errorf("Strings(drive) = %v", got)
	}

	if _, err := sub.RequireStrings("host"); err != nil {
		t.Errorf("RequireStrings(host) failed: %v", err)
	}
	_, err := sub.RequireStrings("missing")
	if !kerrors.IsSkip(err) {
		t.Errorf("RequireStrings on a missing key should skip, got %v", err)
	}
}
