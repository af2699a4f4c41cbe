package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Default value should be "unknown" until set by build
	if Version != "unknown" {
		t.Logf("Version is: %s (expected 'unknown' or version set via ldflags)", Version)
	}
}

func TestString(t *testing.T) {
	got := String()
	want := "contentmigrate " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
