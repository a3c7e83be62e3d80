package taskgw

import (
	"context"
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"auisched/internal/cronspec"
)

// crontabBridge manages entries in the invoking user's crontab. Each job is
// one line tagged with a "# AUI:<name>" comment marker; create appends,
// delete filters the marker line out, list shows only marked lines.
type crontabBridge struct {
	run    Runner
	prefix string
}

func NewCrontabBridge(r Runner, prefix string) Bridge {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	return &crontabBridge{run: r, prefix: prefix}
}

func (b *crontabBridge) marker(name string) string {
	return "# " + b.prefix + ":" + name
}

// cronLine converts the repeat class + "HH:MM" back into cron timing
// fields. A "once" schedule has no native crontab form and degrades to
// daily at the same time.
func cronLine(repeat cronspec.Repeat, startTime string) string {
	hour, minute := splitStartTime(startTime)
	switch repeat {
	case cronspec.RepeatHourly:
		return "0 * * * *"
	case cronspec.RepeatWeekly:
		return fmt.Sprintf("%s %s * * 1", minute, hour)
	case cronspec.RepeatMonthly:
		return fmt.Sprintf("%s %s 1 * *", minute, hour)
	default:
		return fmt.Sprintf("%s %s * * *", minute, hour)
	}
}

func splitStartTime(s string) (hour, minute string) {
	hour, minute = "9", "0"
	parts := strings.Split(s, ":")
	if len(parts) > 0 && parts[0] != "" {
		hour = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		minute = parts[1]
	}
	return hour, minute
}

// current reads the user's crontab. An empty or absent table exits non-zero
// with nothing on stdout; both read as "".
func (b *crontabBridge) current(ctx context.Context) (string, error) {
	res, err := b.run.Run(ctx, "", "crontab", "-l")
	if err != nil {
		return "", fmt.Errorf("read crontab: %w", err)
	}
	if res.ExitCode != 0 {
		return "", nil
	}
	return res.Stdout, nil
}

func (b *crontabBridge) install(ctx context.Context, table string) error {
	res, err := b.run.Run(ctx, table, "crontab", "-")
	if err != nil {
		return fmt.Errorf("set crontab: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("crontab rejected table: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

func (b *crontabBridge) Create(ctx context.Context, t Task) error {
	existing, err := b.current(ctx)
	if err != nil {
		return err
	}
	entry := fmt.Sprintf("%s /bin/bash %s %s\n",
		cronLine(t.Repeat, t.StartTime),
		shellescape.Quote(t.ScriptPath),
		b.marker(t.Name),
	)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}
	return b.install(ctx, existing+entry)
}

func (b *crontabBridge) Delete(ctx context.Context, name string) error {
	existing, err := b.current(ctx)
	if err != nil {
		return err
	}

	marker := b.marker(name)
	kept := make([]string, 0)
	removed := false
	for _, line := range strings.Split(existing, "\n") {
		if strings.Contains(line, marker) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	table := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	return b.install(ctx, table)
}

func (b *crontabBridge) List(ctx context.Context) (string, error) {
	existing, err := b.current(ctx)
	if err != nil {
		return "", err
	}
	marker := "# " + b.prefix + ":"
	ours := make([]string, 0)
	for _, line := range strings.Split(existing, "\n") {
		if strings.Contains(line, marker) {
			ours = append(ours, line)
		}
	}
	return strings.Join(ours, "\n"), nil
}
