package taskgw

import (
	"context"
	"fmt"
	"strings"

	"auisched/internal/cronspec"
)

// schtasksBridge drives the Windows Task Scheduler through schtasks.exe.
// Tasks live in a scheduler folder named after the prefix ("AUI\<name>") so
// listing and cleanup never touch foreign jobs.
type schtasksBridge struct {
	run    Runner
	prefix string
}

func NewSchtasksBridge(r Runner, prefix string) Bridge {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	return &schtasksBridge{run: r, prefix: prefix}
}

func (b *schtasksBridge) taskName(name string) string {
	return b.prefix + `\` + name
}

func scValue(r cronspec.Repeat) string {
	switch r {
	case cronspec.RepeatHourly:
		return "HOURLY"
	case cronspec.RepeatDaily:
		return "DAILY"
	case cronspec.RepeatWeekly:
		return "WEEKLY"
	case cronspec.RepeatMonthly:
		return "MONTHLY"
	default:
		return "ONCE"
	}
}

func (b *schtasksBridge) Create(ctx context.Context, t Task) error {
	sc := scValue(t.Repeat)
	tr := fmt.Sprintf(`powershell.exe -ExecutionPolicy Bypass -File "%s"`, t.ScriptPath)

	args := []string{
		"/Create",
		"/TN", b.taskName(t.Name),
		"/TR", tr,
		"/SC", sc,
		"/ST", t.StartTime,
		"/F", // overwrite if a stale task exists under the same name
	}
	// Hourly tasks repeat regardless of date; everything else anchors on one.
	if sc != "HOURLY" && t.StartDate != "" {
		args = append(args, "/SD", t.StartDate)
	}

	res, err := b.run.Run(ctx, "", "schtasks.exe", args...)
	if err != nil {
		return fmt.Errorf("run schtasks: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("schtasks create failed: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

func (b *schtasksBridge) Delete(ctx context.Context, name string) error {
	res, err := b.run.Run(ctx, "", "schtasks.exe",
		"/Delete", "/TN", b.taskName(name), "/F")
	if err != nil {
		return fmt.Errorf("run schtasks: %w", err)
	}
	if res.ExitCode != 0 {
		stderr := strings.TrimSpace(res.Stderr)
		if strings.Contains(strings.ToLower(stderr), "cannot find") {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, name)
		}
		return fmt.Errorf("schtasks delete failed: %s", stderr)
	}
	return nil
}

func (b *schtasksBridge) List(ctx context.Context) (string, error) {
	res, err := b.run.Run(ctx, "", "schtasks.exe",
		"/Query", "/FO", "CSV", "/NH", "/TN", b.prefix+`\*`)
	if err != nil {
		return "", fmt.Errorf("run schtasks: %w", err)
	}
	// schtasks exits non-zero when the folder holds no tasks; that is an
	// empty listing, not a failure.
	return res.Stdout, nil
}
