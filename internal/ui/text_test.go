package ui

import "testing"

func TestEnsureNewline(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "\n"},
		{"done", "done\n"},
		{"done\n", "done\n"},
	}
	for _, tc := range cases {
		if got := EnsureNewline(tc.in); got != tc.want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormattersWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Code.Sprint("keystash plugins"); got != "`keystash plugins`" {
		t.Errorf("Code.Sprint = %q", got)
	}
	if got := Success.Sprintf("copied to %q", "host"); got != `copied to "host"` {
		t.Errorf("Success.Sprintf = %q", got)
	}

	// The remaining formatters add no affordance without color; the text
	// must pass through untouched.
	plain := map[string]string{
		Path.Sprint("/tmp/keystash"): "/tmp/keystash",
		Error.Sprint("Error: "):      "Error: ",
		Warning.Sprint("!"):          "!",
		Info.Sprint("→"):             "→",
	}
	for got, want := range plain {
		if got != want {
			t.Errorf("formatter output = %q, want %q", got, want)
		}
	}
}
