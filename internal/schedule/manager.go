// Package schedule orchestrates schedule lifecycle: cron translation,
// script generation, OS task registration, and manifest persistence.
//
// Concurrency model: single-process and caller-serialized. Every operation
// is a read-modify-write of the project manifest with no lock around it, so
// callers must not run two operations against the same project at once.
// Once an operation starts it runs to completion or failure; there is no
// cancellation and no retry at this layer.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"auisched/internal/cronspec"
	"auisched/internal/manifest"
	"auisched/internal/platform"
	"auisched/internal/script"
	"auisched/internal/storage"
	"auisched/internal/taskgw"
	"auisched/pkg/logx"
)

// Record aliases the manifest record; the manager is its only writer.
type Record = manifest.Record

// Options configures a Manager. Zero-value fields get safe defaults
// (OS filesystem, detected platform, no-op logger, no audit trail).
type Options struct {
	Fs      afero.Fs
	Gateway *taskgw.Gateway
	Target  platform.Platform

	// AgentCommand / SessionMarker flow into generated scripts; empty
	// values use the script package defaults.
	AgentCommand  string
	SessionMarker string

	Audit storage.Store
	Log   logx.Logger

	// Now is swappable for deterministic task-name suffixes in tests.
	Now func() time.Time
}

type Manager struct {
	fs     afero.Fs
	gw     *taskgw.Gateway
	target platform.Platform

	agentCommand  string
	sessionMarker string

	audit storage.Store
	log   logx.Logger
	now   func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Log.IsZero() {
		opts.Log = logx.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		fs:            opts.Fs,
		gw:            opts.Gateway,
		target:        opts.Target,
		agentCommand:  opts.AgentCommand,
		sessionMarker: opts.SessionMarker,
		audit:         opts.Audit,
		log:           opts.Log,
		now:           opts.Now,
	}
}

func (m *Manager) store(project string) *manifest.Store {
	return manifest.New(m.fs, project, m.log)
}

// CreateRequest mirrors the UI-facing create call.
type CreateRequest struct {
	Project  string
	TeamID   string
	TeamName string
	Cron     string

	// Repeat, when set, overrides the class derived from Cron (the caller
	// may have already translated). Empty means derive.
	Repeat cronspec.Repeat

	Prompt        string
	PrimerContent string

	// DeployScriptPath switches the generated script to pipeline mode.
	DeployScriptPath string
}

// Create allocates an id, writes the primer and script artifacts, registers
// the OS task, appends the record, and persists the manifest.
//
// A registration failure aborts the operation with the manifest unchanged;
// the already-written script and primer files are left behind as accepted
// orphans (no rollback).
func (m *Manager) Create(ctx context.Context, req CreateRequest) (Record, error) {
	st := m.store(req.Project)
	records := st.Load()

	now := m.now()
	name := allocateTaskName(req.TeamName, now, func(candidate string) bool {
		for _, r := range records {
			if r.TaskName == candidate {
				return true
			}
		}
		return false
	})

	tr := cronspec.Translate(req.Cron)
	repeat := req.Repeat
	if repeat == "" {
		repeat = tr.Repeat
	}

	// The primer is written even in pipeline mode: record shape stays
	// uniform, the file is simply unused there.
	primerPath := st.PrimerPath(name)
	if err := st.WriteArtifact(primerPath, []byte(req.PrimerContent), 0o644); err != nil {
		return Record{}, fmt.Errorf("write primer: %w", err)
	}

	scriptPath := st.ScriptPath(name, m.target)
	text := script.Generate(m.target, script.Params{
		TeamName:         req.TeamName,
		PrimerPath:       primerPath,
		DeployScriptPath: req.DeployScriptPath,
		AgentCommand:     m.agentCommand,
		SessionMarker:    m.sessionMarker,
	})
	if err := st.WriteArtifact(scriptPath, []byte(text), 0o755); err != nil {
		return Record{}, fmt.Errorf("write script: %w", err)
	}

	err := m.gw.CreateTask(ctx, taskgw.Task{
		Name:       name,
		ScriptPath: scriptPath,
		StartTime:  tr.StartTime,
		StartDate:  startDate(now),
		Repeat:     repeat,
	})
	m.recordAudit(ctx, "create", name, req.Project, err)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:         name,
		TaskName:   name,
		TeamID:     req.TeamID,
		TeamName:   req.TeamName,
		Cron:       req.Cron,
		Repeat:     repeat,
		Prompt:     req.Prompt,
		ScriptPath: scriptPath,
		PrimerPath: primerPath,
		Enabled:    true,
		CreatedAt:  now,
	}
	records = append(records, rec)
	if err := st.Save(records); err != nil {
		return Record{}, fmt.Errorf("save manifest: %w", err)
	}

	m.log.Info("schedule created",
		logx.String("task", name),
		logx.String("team", req.TeamName),
		logx.String("repeat", string(repeat)))
	return rec, nil
}

// Toggle flips a record between enabled and disabled, mirroring the flip
// against the OS scheduler. An unknown id is a no-op returning the
// unchanged list.
//
// Disabling swallows unregistration failures (the task may already be
// gone). Enabling re-derives the start time from the stored cron and
// re-registers; a registration failure propagates and the record is NOT
// flipped.
func (m *Manager) Toggle(ctx context.Context, project, id string) ([]Record, error) {
	st := m.store(project)
	records := st.Load()

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.log.Debug("toggle of unknown schedule ignored", logx.String("id", id))
		return records, nil
	}
	rec := &records[idx]

	if rec.Enabled {
		res := m.gw.DeleteTask(ctx, rec.TaskName)
		m.recordAudit(ctx, "disable", rec.TaskName, project, res.Err)
		rec.Enabled = false
	} else {
		tr := cronspec.Translate(rec.Cron)
		err := m.gw.CreateTask(ctx, taskgw.Task{
			Name:       rec.TaskName,
			ScriptPath: rec.ScriptPath,
			StartTime:  tr.StartTime,
			StartDate:  startDate(m.now()),
			Repeat:     rec.Repeat,
		})
		m.recordAudit(ctx, "enable", rec.TaskName, project, err)
		if err != nil {
			return records, err
		}
		rec.Enabled = true
	}

	if err := st.Save(records); err != nil {
		return records, fmt.Errorf("save manifest: %w", err)
	}
	return records, nil
}

// Delete unregisters the OS task (best-effort) and removes the record
// unconditionally, so a record whose OS task is already gone can still be
// cleaned up. An unknown id leaves the manifest unchanged.
func (m *Manager) Delete(ctx context.Context, project, id string) ([]Record, error) {
	st := m.store(project)
	records := st.Load()

	kept := make([]Record, 0, len(records))
	var removed *Record
	for i := range records {
		if records[i].ID == id {
			removed = &records[i]
			continue
		}
		kept = append(kept, records[i])
	}
	if removed == nil {
		return records, nil
	}

	res := m.gw.DeleteTask(ctx, removed.TaskName)
	m.recordAudit(ctx, "delete", removed.TaskName, project, res.Err)

	if err := st.Save(kept); err != nil {
		return kept, fmt.Errorf("save manifest: %w", err)
	}
	m.log.Info("schedule deleted",
		logx.String("task", removed.TaskName),
		logx.String("os_outcome", res.Outcome.String()))
	return kept, nil
}

// List returns the manifest records for a project. Read-only.
func (m *Manager) List(project string) []Record {
	return m.store(project).Load()
}

// OSTasks returns the raw OS-side listing for drift display. It never
// writes: the manifest stays authoritative even when the two disagree.
func (m *Manager) OSTasks(ctx context.Context) (string, error) {
	return m.gw.ListTasks(ctx)
}

func (m *Manager) recordAudit(ctx context.Context, op, task, project string, opErr error) {
	if m.audit == nil {
		return
	}
	e := storage.AuditEntry{
		At:      m.now(),
		Op:      op,
		Task:    task,
		Project: project,
	}
	if opErr != nil {
		e.Error = opErr.Error()
	}
	if err := m.audit.AppendAudit(ctx, e); err != nil {
		m.log.Debug("audit append failed", logx.Err(err))
	}
}

// startDate renders the bridge-facing "MM/DD/YYYY" anchor date.
func startDate(t time.Time) string {
	return t.Format("01/02/2006")
}
