package taskgw

import (
	"context"
	"errors"
	"strings"
	"testing"

	"auisched/internal/cronspec"
	"auisched/pkg/logx"
)

// fakeRunner replays scripted results and records every invocation.
type fakeRunner struct {
	results []RunResult
	errs    []error
	calls   []call
}

type call struct {
	stdin string
	name  string
	args  []string
}

func (f *fakeRunner) Run(ctx context.Context, stdin string, name string, args ...string) (RunResult, error) {
	f.calls = append(f.calls, call{stdin: stdin, name: name, args: args})
	i := len(f.calls) - 1
	var res RunResult
	if i < len(f.results) {
		res = f.results[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func (f *fakeRunner) lastCall(t *testing.T) call {
	t.Helper()
	if len(f.calls) == 0 {
		t.Fatal("no commands were run")
	}
	return f.calls[len(f.calls)-1]
}

func task() Task {
	return Task{
		Name:       "social-media-x1",
		ScriptPath: `C:\proj\.aui\schedules\social-media-x1.ps1`,
		StartTime:  "09:00",
		StartDate:  "03/10/2026",
		Repeat:     cronspec.RepeatWeekly,
	}
}

func TestSchtasksCreateArgs(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{}
	b := NewSchtasksBridge(r, "AUI")

	if err := b.Create(context.Background(), task()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c := r.lastCall(t)
	if c.name != "schtasks.exe" {
		t.Fatalf("command = %s", c.name)
	}
	joined := strings.Join(c.args, " ")
	for _, want := range []string{
		`/TN AUI\social-media-x1`,
		"/SC WEEKLY",
		"/ST 09:00",
		"/SD 03/10/2026",
		"/F",
		`-File "C:\proj\.aui\schedules\social-media-x1.ps1"`,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q:\n%s", want, joined)
		}
	}
}

func TestSchtasksCreateHourlySkipsStartDate(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{}
	b := NewSchtasksBridge(r, "AUI")

	tk := task()
	tk.Repeat = cronspec.RepeatHourly
	if err := b.Create(context.Background(), tk); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(strings.Join(r.lastCall(t).args, " "), "/SD") {
		t.Fatal("hourly task must not carry /SD")
	}
}

func TestSchtasksCreateFailure(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{results: []RunResult{{ExitCode: 1, Stderr: "ERROR: Access is denied."}}}
	b := NewSchtasksBridge(r, "AUI")

	err := b.Create(context.Background(), task())
	if err == nil || !strings.Contains(err.Error(), "Access is denied") {
		t.Fatalf("Create error = %v, want schtasks stderr surfaced", err)
	}
}

func TestSchtasksDeleteNotFound(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{results: []RunResult{{ExitCode: 1, Stderr: "ERROR: The system cannot find the file specified."}}}
	b := NewSchtasksBridge(r, "AUI")

	err := b.Delete(context.Background(), "gone")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Delete error = %v, want ErrTaskNotFound", err)
	}
}

func TestSchtasksListToleratesNonZeroExit(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{results: []RunResult{{ExitCode: 1, Stdout: ""}}}
	b := NewSchtasksBridge(r, "AUI")

	out, err := b.List(context.Background())
	if err != nil || out != "" {
		t.Fatalf("List = (%q, %v), want empty without error", out, err)
	}
}

func TestCrontabCreateAppendsMarkedEntry(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{results: []RunResult{
		{Stdout: "0 1 * * * /usr/bin/backup\n"}, // crontab -l
		{},                                      // crontab -
	}}
	b := NewCrontabBridge(r, "AUI")

	tk := task()
	tk.ScriptPath = "/proj/.aui/schedules/social-media-x1.sh"
	if err := b.Create(context.Background(), tk); err != nil {
		t.Fatalf("Create: %v", err)
	}

	install := r.calls[1]
	if install.name != "crontab" || install.args[0] != "-" {
		t.Fatalf("second call = %+v, want crontab -", install)
	}
	if !strings.Contains(install.stdin, "0 1 * * * /usr/bin/backup\n") {
		t.Fatalf("existing entries lost:\n%s", install.stdin)
	}
	if !strings.Contains(install.stdin, "0 9 * * 1 /bin/bash /proj/.aui/schedules/social-media-x1.sh # AUI:social-media-x1\n") {
		t.Fatalf("new entry malformed:\n%s", install.stdin)
	}
}

func TestCrontabCronLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		repeat cronspec.Repeat
		start  string
		want   string
	}{
		{cronspec.RepeatHourly, "00:15", "0 * * * *"},
		{cronspec.RepeatDaily, "14:30", "30 14 * * *"},
		{cronspec.RepeatWeekly, "09:00", "00 09 * * 1"},
		{cronspec.RepeatMonthly, "08:05", "05 08 1 * *"},
		{cronspec.RepeatOnce, "", "0 9 * * *"},
	}
	for _, tt := range tests {
		if got := cronLine(tt.repeat, tt.start); got != tt.want {
			t.Errorf("cronLine(%s, %q) = %q, want %q", tt.repeat, tt.start, got, tt.want)
		}
	}
}

func TestCrontabDeleteFiltersMarkerLine(t *testing.T) {
	t.Parallel()
	table := "0 1 * * * /usr/bin/backup\n" +
		"0 9 * * 1 /bin/bash /p/s.sh # AUI:social-media-x1\n"
	r := &fakeRunner{results: []RunResult{{Stdout: table}, {}}}
	b := NewCrontabBridge(r, "AUI")

	if err := b.Delete(context.Background(), "social-media-x1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	install := r.calls[1]
	if strings.Contains(install.stdin, "AUI:social-media-x1") {
		t.Fatalf("entry not removed:\n%s", install.stdin)
	}
	if !strings.Contains(install.stdin, "/usr/bin/backup") {
		t.Fatalf("unrelated entry lost:\n%s", install.stdin)
	}
}

func TestCrontabDeleteNotFound(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{results: []RunResult{{Stdout: "0 1 * * * /usr/bin/backup\n"}}}
	b := NewCrontabBridge(r, "AUI")

	err := b.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Delete error = %v, want ErrTaskNotFound", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("crontab rewritten despite no-op delete (%d calls)", len(r.calls))
	}
}

func TestCrontabListFiltersToOwnEntries(t *testing.T) {
	t.Parallel()
	table := "0 1 * * * /usr/bin/backup\n" +
		"0 9 * * 1 /bin/bash /p/a.sh # AUI:a\n" +
		"30 14 * * * /bin/bash /p/b.sh # AUI:b\n"
	r := &fakeRunner{results: []RunResult{{Stdout: table}}}
	b := NewCrontabBridge(r, "AUI")

	out, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "AUI:a") || !strings.Contains(lines[1], "AUI:b") {
		t.Fatalf("List = %q", out)
	}
}

// stubBridge lets gateway tests script bridge behavior directly.
type stubBridge struct {
	createErr error
	deleteErr error
	listOut   string
}

func (s *stubBridge) Create(ctx context.Context, t Task) error      { return s.createErr }
func (s *stubBridge) Delete(ctx context.Context, name string) error { return s.deleteErr }
func (s *stubBridge) List(ctx context.Context) (string, error)      { return s.listOut, nil }

func TestGatewayDeleteOutcomes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want DeleteOutcome
	}{
		{"ok", nil, DeleteOK},
		{"not found", ErrTaskNotFound, DeleteNotFound},
		{"wrapped not found", errors.New("x"), DeleteError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(&stubBridge{deleteErr: tt.err}, logx.Nop())
			res := g.DeleteTask(context.Background(), "n")
			if res.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", res.Outcome, tt.want)
			}
		})
	}
}

func TestGatewayCreatePropagates(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	g := NewGateway(&stubBridge{createErr: boom}, logx.Nop())
	if err := g.CreateTask(context.Background(), task()); !errors.Is(err, boom) {
		t.Fatalf("CreateTask error = %v, want boom", err)
	}
}
