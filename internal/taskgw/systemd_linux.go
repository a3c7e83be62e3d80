//go:build linux

package taskgw

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"auisched/internal/cronspec"
	"auisched/pkg/logx"
)

// systemdBridge registers schedules as systemd user timers instead of
// crontab lines. Each schedule becomes a <prefix>-<name>.service oneshot
// plus a matching .timer, written under the user unit directory, enabled
// and started over the user D-Bus connection.
type systemdBridge struct {
	conn    *dbus.Conn
	unitDir string
	prefix  string // lowercased for unit names
	log     logx.Logger
}

// NewSystemdBridge connects to the per-user systemd instance.
func NewSystemdBridge(prefix string, log logx.Logger) (Bridge, error) {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	conn, err := dbus.NewUserConnectionContext(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &systemdBridge{
		conn:    conn,
		unitDir: filepath.Join(home, ".config", "systemd", "user"),
		prefix:  strings.ToLower(prefix),
		log:     log,
	}, nil
}

func (b *systemdBridge) unitBase(name string) string {
	return b.prefix + "-" + name
}

// calendarFor maps the repeat class + "HH:MM" onto an OnCalendar spec.
// "once" has no natural timer form and degrades to daily, matching the
// crontab bridge.
func calendarFor(repeat cronspec.Repeat, startTime string) string {
	hour, minute := splitStartTime(startTime)
	hhmm := pad2(hour) + ":" + pad2(minute)
	switch repeat {
	case cronspec.RepeatHourly:
		return "*-*-* *:" + pad2(minute) + ":00"
	case cronspec.RepeatWeekly:
		return "Mon *-*-* " + hhmm + ":00"
	case cronspec.RepeatMonthly:
		return "*-*-01 " + hhmm + ":00"
	default:
		return "*-*-* " + hhmm + ":00"
	}
}

func pad2(v string) string {
	if len(v) < 2 {
		return "0" + v
	}
	return v
}

func (b *systemdBridge) Create(ctx context.Context, t Task) error {
	base := b.unitBase(t.Name)
	servicePath := filepath.Join(b.unitDir, base+".service")
	timerPath := filepath.Join(b.unitDir, base+".timer")

	if err := os.MkdirAll(b.unitDir, 0o755); err != nil {
		return err
	}

	service := fmt.Sprintf(`[Unit]
Description=Scheduled run %s

[Service]
Type=oneshot
ExecStart=/bin/bash %s
`, t.Name, t.ScriptPath)

	timer := fmt.Sprintf(`[Unit]
Description=Timer for scheduled run %s

[Timer]
OnCalendar=%s
Persistent=true

[Install]
WantedBy=timers.target
`, t.Name, calendarFor(t.Repeat, t.StartTime))

	if err := os.WriteFile(servicePath, []byte(service), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(timerPath, []byte(timer), 0o644); err != nil {
		return err
	}

	if err := b.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("systemd reload: %w", err)
	}
	if _, _, err := b.conn.EnableUnitFilesContext(ctx, []string{timerPath}, false, true); err != nil {
		return fmt.Errorf("failed to enable %s: %w", base+".timer", err)
	}
	if _, err := b.conn.StartUnitContext(ctx, base+".timer", "replace", nil); err != nil {
		return fmt.Errorf("failed to start %s: %w", base+".timer", err)
	}
	return nil
}

func (b *systemdBridge) Delete(ctx context.Context, name string) error {
	base := b.unitBase(name)
	servicePath := filepath.Join(b.unitDir, base+".service")
	timerPath := filepath.Join(b.unitDir, base+".timer")

	if _, err := os.Stat(timerPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}

	// Stop/disable are best-effort; the unit may already be inactive.
	if _, err := b.conn.StopUnitContext(ctx, base+".timer", "replace", nil); err != nil {
		b.log.Debug("timer stop failed", logx.String("unit", base+".timer"), logx.Err(err))
	}
	if _, err := b.conn.DisableUnitFilesContext(ctx, []string{base + ".timer"}, false); err != nil {
		b.log.Debug("timer disable failed", logx.String("unit", base+".timer"), logx.Err(err))
	}

	if err := os.Remove(timerPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(servicePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := b.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("systemd reload: %w", err)
	}
	return nil
}

func (b *systemdBridge) List(ctx context.Context) (string, error) {
	files, err := b.conn.ListUnitFilesByPatternsContext(ctx, nil, []string{b.prefix + "-*.timer"})
	if err != nil {
		return "", fmt.Errorf("list unit files: %w", err)
	}
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f.Path)
		sb.WriteString(" ")
		sb.WriteString(f.Type)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
