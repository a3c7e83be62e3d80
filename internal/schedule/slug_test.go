package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Social Media!", "social-media"},
		{"  Ops / Deploy  ", "ops-deploy"},
		{"already-slugged", "already-slugged"},
		{"UPPER_case 42", "upper-case-42"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllocateTaskName(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	name := allocateTaskName("Social Media!", now, func(string) bool { return false })
	if !strings.HasPrefix(name, "social-media-") {
		t.Fatalf("name = %q", name)
	}
	if strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		t.Fatalf("name %q has empty segments", name)
	}

	// Unusable team names still produce a valid identifier.
	fallback := allocateTaskName("!!!", now, func(string) bool { return false })
	if !strings.HasPrefix(fallback, "schedule-") {
		t.Fatalf("fallback name = %q", fallback)
	}

	// Same-tick collisions get a counter suffix.
	taken := map[string]bool{name: true}
	second := allocateTaskName("Social Media!", now, func(n string) bool { return taken[n] })
	if second != name+"-2" {
		t.Fatalf("collision name = %q, want %q", second, name+"-2")
	}
}
