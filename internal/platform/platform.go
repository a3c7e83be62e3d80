// Package platform identifies the script/scheduler target host.
//
// The target is resolved once per operation and passed down explicitly, so
// both the Windows and POSIX branches of script generation and task
// registration are exercised deterministically in tests regardless of the
// actual execution host.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

type Platform int

const (
	// POSIX covers macOS and Linux: bash scripts, crontab/systemd scheduling.
	POSIX Platform = iota
	// Windows: PowerShell scripts, Task Scheduler via schtasks.exe.
	Windows
)

// Detect maps the current GOOS to a Platform.
func Detect() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return POSIX
}

// Parse resolves a user-facing platform name. Empty and "auto" detect.
func Parse(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Detect(), nil
	case "windows":
		return Windows, nil
	case "posix", "linux", "darwin", "macos":
		return POSIX, nil
	default:
		return POSIX, fmt.Errorf("unknown platform %q", s)
	}
}

func (p Platform) String() string {
	if p == Windows {
		return "windows"
	}
	return "posix"
}

// ScriptExt returns the generated script file extension, dot included.
func (p Platform) ScriptExt() string {
	if p == Windows {
		return ".ps1"
	}
	return ".sh"
}

// PathSeparator returns the separator used inside generated scripts.
// Manifest paths are stored with the target's separators so the script text
// matches what the OS scheduler will actually invoke.
func (p Platform) PathSeparator() string {
	if p == Windows {
		return "\\"
	}
	return "/"
}

// JoinPath joins path elements with the target platform's separator.
func (p Platform) JoinPath(elem ...string) string {
	out := ""
	for _, e := range elem {
		if e == "" {
			continue
		}
		if out == "" {
			out = e
			continue
		}
		out += p.PathSeparator() + e
	}
	return out
}
