// Package manifest persists the per-project schedule manifest.
//
// The manifest is one JSON array, read and written as a whole document.
// There is no partial merge and no locking: the subsystem is single-process
// and the caller serializes operations per project, so last writer wins.
// The on-disk manifest is the single source of truth for application-level
// state; OS-side scheduler state may legitimately diverge and is only ever
// read, never reconciled.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"auisched/internal/cronspec"
	"auisched/internal/platform"
	"auisched/pkg/logx"
)

const (
	// Dir is the project-relative directory holding all scheduler state.
	Dir = ".aui"
	// FileName is the manifest document inside Dir.
	FileName = "schedules.json"
	// ArtifactsDirName holds generated scripts and primers inside Dir.
	ArtifactsDirName = "schedules"
)

// Record is one user-visible scheduled job. JSON field names are the
// on-disk manifest format and must stay stable.
type Record struct {
	// ID and TaskName carry the same value: the unique OS-facing identifier.
	ID       string `json:"id"`
	TaskName string `json:"taskName"`

	// TeamID/TeamName reference the externally-owned entity this schedule
	// triggers.
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`

	// Cron is the 5-field expression, source of truth for timing intent.
	// Repeat is its cached classification.
	Cron   string          `json:"cron"`
	Repeat cronspec.Repeat `json:"repeat"`

	Prompt     string `json:"prompt"`
	ScriptPath string `json:"scriptPath"`
	PrimerPath string `json:"primerPath"`

	// Enabled records whether this subsystem believes an OS task currently
	// exists for the record.
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes one project's manifest and generated artifacts.
type Store struct {
	fs      afero.Fs
	project string
	log     logx.Logger
}

// New binds a store to a project root. Pass afero.NewOsFs() for real use;
// tests run against afero.NewMemMapFs().
func New(fs afero.Fs, project string, log logx.Logger) *Store {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Store{fs: fs, project: project, log: log}
}

// Path returns the manifest document location.
func (s *Store) Path() string {
	return filepath.Join(s.project, Dir, FileName)
}

// ArtifactsDir returns the directory for generated scripts and primers.
func (s *Store) ArtifactsDir() string {
	return filepath.Join(s.project, Dir, ArtifactsDirName)
}

// ScriptPath returns where the generated script for taskName lives.
func (s *Store) ScriptPath(taskName string, target platform.Platform) string {
	return filepath.Join(s.ArtifactsDir(), taskName+target.ScriptExt())
}

// PrimerPath returns where the primer document for taskName lives.
func (s *Store) PrimerPath(taskName string) string {
	return filepath.Join(s.ArtifactsDir(), taskName+"-primer.md")
}

// Load reads the manifest. It is deliberately tolerant: a missing file
// yields an empty list, and so does an undecodable document — callers
// cannot distinguish "genuinely empty" from "was corrupt" (documented
// open ambiguity; availability wins over diagnosability here).
// Entries that decode but fail validation are dropped, not trusted.
func (s *Store) Load() []Record {
	b, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("manifest read failed; treating as empty",
				logx.String("path", s.Path()), logx.Err(err))
		}
		return []Record{}
	}

	var raw []Record
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn("manifest is not valid JSON; treating as empty",
			logx.String("path", s.Path()), logx.Err(err))
		return []Record{}
	}

	out := make([]Record, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if r.ID == "" || r.TaskName == "" {
			dropped++
			continue
		}
		out = append(out, r)
	}
	if dropped > 0 {
		s.log.Warn("manifest contained invalid entries; dropped",
			logx.String("path", s.Path()), logx.Int("dropped", dropped))
	}
	return out
}

// Save overwrites the manifest with the full record list, creating the
// containing directory first. Output is pretty-printed with 2-space indent.
func (s *Store) Save(recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.Path(), append(b, '\n'), 0o644)
}

// WriteArtifact writes a generated script or primer, creating the artifacts
// directory as needed.
func (s *Store) WriteArtifact(path string, data []byte, perm os.FileMode) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, data, perm)
}
