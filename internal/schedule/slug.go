package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen, and trims leading/trailing hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// allocateTaskName derives the OS-facing identifier: slug(teamName) plus a
// base36 timestamp suffix. Two creations inside the same clock tick would
// collide, so the name is checked against the manifest and suffixed with a
// counter (-2, -3, ...) until unique.
func allocateTaskName(teamName string, now time.Time, taken func(string) bool) string {
	slug := Slugify(teamName)
	if slug == "" {
		slug = "schedule"
	}
	base := slug + "-" + strconv.FormatInt(now.UnixMilli(), 36)

	name := base
	for i := 2; taken(name); i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	return name
}
