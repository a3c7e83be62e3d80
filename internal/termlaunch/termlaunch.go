// Package termlaunch opens a schedule's script in an interactive terminal
// window, for running a job on demand outside its timer.
package termlaunch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"al.essio.dev/pkg/shellescape"

	"auisched/internal/platform"
	"auisched/pkg/logx"
)

// ErrNoTerminal reports that no known terminal emulator could be started.
var ErrNoTerminal = errors.New("no terminal emulator available")

// Starter spawns a detached command. Injected so tests can observe the
// attempted command lines without opening windows.
type Starter func(ctx context.Context, name string, args ...string) error

func execStarter(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	// Start, not Run: the window outlives us.
	return cmd.Start()
}

// Launcher picks a host terminal and runs a script inside it.
type Launcher struct {
	target platform.Platform
	goos   string
	start  Starter
	log    logx.Logger
}

func New(target platform.Platform, log logx.Logger) *Launcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Launcher{target: target, goos: runtime.GOOS, start: execStarter, log: log}
}

// Open launches scriptPath in a new interactive terminal window.
//
// Windows opens a PowerShell window via cmd's start builtin. macOS drives
// Terminal.app through osascript. Elsewhere the known terminal emulators
// are tried in order and the first one that starts wins.
func (l *Launcher) Open(ctx context.Context, scriptPath string) error {
	if l.target == platform.Windows {
		return l.start(ctx, "cmd", "/C", "start", "powershell.exe",
			"-NoExit", "-ExecutionPolicy", "Bypass", "-File", scriptPath)
	}
	if l.goos == "darwin" {
		osa := fmt.Sprintf("tell application %q to do script %q",
			"Terminal", "/bin/bash "+shellescape.Quote(scriptPath))
		return l.start(ctx, "osascript", "-e", osa)
	}

	quoted := shellescape.Quote(scriptPath)
	attempts := [][]string{
		{"x-terminal-emulator", "-e", "/bin/bash " + quoted},
		{"gnome-terminal", "--", "/bin/bash", scriptPath},
		{"konsole", "-e", "/bin/bash", scriptPath},
		{"xterm", "-e", "/bin/bash " + quoted},
	}
	for _, a := range attempts {
		if err := l.start(ctx, a[0], a[1:]...); err == nil {
			l.log.Debug("terminal opened", logx.String("emulator", a[0]))
			return nil
		}
	}
	return ErrNoTerminal
}
