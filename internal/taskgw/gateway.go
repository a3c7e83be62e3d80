// Package taskgw registers, unregisters, and lists native OS scheduled
// jobs for the schedule manager.
//
// The package does not implement scheduling itself. Each Bridge is a thin
// typed facade over a privileged host command (schtasks.exe, crontab, or
// systemd user timers); the Gateway adds logging and the three-way delete
// outcome on top. Listing is read-only and exists only so callers can
// display drift between the manifest and the OS — it never feeds back into
// the manifest.
package taskgw

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auisched/internal/cronspec"
	"auisched/internal/platform"
	"auisched/pkg/logx"
)

// DefaultTaskPrefix namespaces our jobs inside the OS scheduler
// (a schtasks folder, a crontab comment marker, a unit name prefix).
const DefaultTaskPrefix = "AUI"

// ErrTaskNotFound reports that the OS has no job under the given name.
// Bridges return it from Delete when they can tell the difference between
// "already gone" and a real failure.
var ErrTaskNotFound = errors.New("scheduled task not found")

// Task is a request to register one recurring OS job.
type Task struct {
	Name       string
	ScriptPath string
	// StartTime is "HH:MM"; StartDate is "MM/DD/YYYY" and may be empty.
	StartTime string
	StartDate string
	Repeat    cronspec.Repeat
}

// Bridge is the privileged-executor contract. Implementations translate the
// typed operations into host scheduler commands.
type Bridge interface {
	Create(ctx context.Context, t Task) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) (string, error)
}

// DeleteOutcome is the explicit three-way result of an unregistration, so
// callers can log genuine failures without treating "already gone" as one.
type DeleteOutcome int

const (
	DeleteOK DeleteOutcome = iota
	DeleteNotFound
	DeleteError
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteOK:
		return "deleted"
	case DeleteNotFound:
		return "not-found"
	default:
		return "error"
	}
}

// DeleteResult carries the outcome and, for DeleteError, the cause.
type DeleteResult struct {
	Outcome DeleteOutcome
	Err     error
}

// Gateway wraps a Bridge with logging and outcome classification.
type Gateway struct {
	bridge Bridge
	log    logx.Logger
}

func NewGateway(b Bridge, log logx.Logger) *Gateway {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Gateway{bridge: b, log: log}
}

// CreateTask registers a job. Failures propagate unmodified to the caller;
// there is no retry here.
func (g *Gateway) CreateTask(ctx context.Context, t Task) error {
	err := g.bridge.Create(ctx, t)
	if err != nil {
		g.log.Warn("os task create failed",
			logx.String("task", t.Name), logx.Err(err))
		return err
	}
	g.log.Info("os task created",
		logx.String("task", t.Name),
		logx.String("start", t.StartTime),
		logx.String("repeat", string(t.Repeat)))
	return nil
}

// DeleteTask unregisters a job. It never returns an error: the task may
// legitimately be gone already, and callers decide whether a genuine
// failure matters.
func (g *Gateway) DeleteTask(ctx context.Context, name string) DeleteResult {
	err := g.bridge.Delete(ctx, name)
	switch {
	case err == nil:
		g.log.Info("os task deleted", logx.String("task", name))
		return DeleteResult{Outcome: DeleteOK}
	case errors.Is(err, ErrTaskNotFound):
		g.log.Debug("os task already absent", logx.String("task", name))
		return DeleteResult{Outcome: DeleteNotFound}
	default:
		g.log.Warn("os task delete failed",
			logx.String("task", name), logx.Err(err))
		return DeleteResult{Outcome: DeleteError, Err: err}
	}
}

// ListTasks returns the raw OS-side listing for drift display.
func (g *Gateway) ListTasks(ctx context.Context) (string, error) {
	return g.bridge.List(ctx)
}

// NewBridge selects a bridge implementation.
//
// backend is one of "auto", "schtasks", "crontab", "systemd"; "auto" maps
// Windows to schtasks and everything else to crontab. prefix defaults to
// DefaultTaskPrefix when empty.
func NewBridge(backend string, target platform.Platform, r Runner, prefix string, log logx.Logger) (Bridge, error) {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "auto":
		if target == platform.Windows {
			return NewSchtasksBridge(r, prefix), nil
		}
		return NewCrontabBridge(r, prefix), nil
	case "schtasks":
		return NewSchtasksBridge(r, prefix), nil
	case "crontab":
		return NewCrontabBridge(r, prefix), nil
	case "systemd":
		return NewSystemdBridge(prefix, log)
	default:
		return nil, fmt.Errorf("unknown scheduler backend %q", backend)
	}
}
