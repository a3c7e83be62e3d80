package manifest

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"auisched/internal/cronspec"
	"auisched/internal/platform"
	"auisched/pkg/logx"
)

func testStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(fs, "/proj", logx.Nop()), fs
}

func sampleRecords() []Record {
	created := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	return []Record{
		{
			ID: "social-media-x1", TaskName: "social-media-x1",
			TeamID: "t1", TeamName: "Social Media",
			Cron: "0 9 * * 1", Repeat: cronspec.RepeatWeekly,
			Prompt:     "post the weekly update",
			ScriptPath: "/proj/.aui/schedules/social-media-x1.sh",
			PrimerPath: "/proj/.aui/schedules/social-media-x1-primer.md",
			Enabled:    true, CreatedAt: created,
		},
		{
			ID: "ops-y2", TaskName: "ops-y2",
			TeamID: "t2", TeamName: "Ops",
			Cron: "30 14 * * *", Repeat: cronspec.RepeatDaily,
			ScriptPath: "/proj/.aui/schedules/ops-y2.sh",
			PrimerPath: "/proj/.aui/schedules/ops-y2-primer.md",
			Enabled:    false, CreatedAt: created,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s, _ := testStore(t)

	want := sampleRecords()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := s.Load()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSavePrettyPrints(t *testing.T) {
	t.Parallel()
	s, fs := testStore(t)

	if err := s.Save(sampleRecords()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := afero.ReadFile(fs, "/proj/.aui/schedules.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "\n  {") {
		t.Fatalf("manifest not pretty-printed with 2-space indent:\n%s", b)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	s, _ := testStore(t)
	got := s.Load()
	if got == nil || len(got) != 0 {
		t.Fatalf("Load of missing manifest = %v, want empty list", got)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()
	s, fs := testStore(t)
	if err := afero.WriteFile(fs, s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := s.Load()
	if len(got) != 0 {
		t.Fatalf("Load of corrupt manifest = %v, want empty list", got)
	}
}

func TestLoadDropsInvalidEntries(t *testing.T) {
	t.Parallel()
	s, fs := testStore(t)
	doc := `[
  {"id":"","taskName":"","teamId":"x","teamName":"x","cron":"","repeat":"once","prompt":"","scriptPath":"","primerPath":"","enabled":false,"createdAt":"2026-01-05T12:00:00Z"},
  {"id":"keep-1","taskName":"keep-1","teamId":"t","teamName":"T","cron":"0 9 * * *","repeat":"daily","prompt":"","scriptPath":"","primerPath":"","enabled":true,"createdAt":"2026-01-05T12:00:00Z"}
]`
	if err := afero.WriteFile(fs, s.Path(), []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := s.Load()
	if len(got) != 1 || got[0].ID != "keep-1" {
		t.Fatalf("Load = %+v, want only keep-1", got)
	}
}

func TestSaveNilIsEmptyArray(t *testing.T) {
	t.Parallel()
	s, fs := testStore(t)
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _ := afero.ReadFile(fs, s.Path())
	if strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("nil list should persist as [], got %q", b)
	}
}

func TestArtifactPaths(t *testing.T) {
	t.Parallel()
	s, _ := testStore(t)
	if got := s.ScriptPath("ops-y2", platform.Windows); !strings.HasSuffix(got, "ops-y2.ps1") {
		t.Fatalf("windows script path = %q", got)
	}
	if got := s.ScriptPath("ops-y2", platform.POSIX); !strings.HasSuffix(got, "ops-y2.sh") {
		t.Fatalf("posix script path = %q", got)
	}
	if got := s.PrimerPath("ops-y2"); !strings.HasSuffix(got, "ops-y2-primer.md") {
		t.Fatalf("primer path = %q", got)
	}
}
