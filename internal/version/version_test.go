package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		commit  string
		date    string
		contain string
	}{
		{"dev build", unknown, unknown, "tonal version dev ("},
		{"full commit", "0123456789abcdef", "2026-01-02T03:04:05Z", "commit: 01234567,"},
		{"short commit", "abc", "2026-01-02T03:04:05Z", "commit: abc,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldCommit, oldDate := Commit, Date
			t.Cleanup(func() { Commit, Date = oldCommit, oldDate })
			Commit, Date = tt.commit, tt.date

			if got := String(); !strings.Contains(got, tt.contain) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.contain)
			}
		})
	}
}
