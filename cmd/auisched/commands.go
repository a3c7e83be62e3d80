package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"auisched/internal/config"
	"auisched/internal/cronspec"
	"auisched/internal/schedule"
	"auisched/internal/termlaunch"
	"auisched/pkg/logx"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func createAction(c *cli.Context) error {
	team := c.String("team-name")
	cronExpr := c.String("cron")
	if team == "" || cronExpr == "" {
		return errors.New("create: --team-name and --cron are required")
	}

	primer, err := readPrimer(c.String("primer-file"))
	if err != nil {
		return err
	}

	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := signalContext()
	defer cancel()

	rec, err := e.manager.Create(ctx, schedule.CreateRequest{
		Project:          e.project,
		TeamID:           c.String("team-id"),
		TeamName:         team,
		Cron:             cronExpr,
		Prompt:           c.String("prompt"),
		PrimerContent:    primer,
		DeployScriptPath: c.String("deploy-script"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("created %s (%s, %s)\n", rec.ID, rec.Repeat, rec.Cron)
	fmt.Printf("  script: %s\n", rec.ScriptPath)
	return nil
}

func readPrimer(path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read primer from stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read primer: %w", err)
		}
		return string(b), nil
	}
}

func listAction(c *cli.Context) error {
	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	records := e.manager.List(e.project)
	if c.Bool("json") {
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("no schedules")
		return nil
	}
	now := time.Now()
	for _, r := range records {
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		line := fmt.Sprintf("%-28s %-10s %-8s %-10s %s", r.ID, string(r.Repeat), state, r.Cron, r.TeamName)
		if next := cronspec.Next(r.Cron, now); !next.IsZero() && r.Enabled {
			line += fmt.Sprintf("  (next %s)", next.Format("2006-01-02 15:04"))
		}
		fmt.Println(line)
	}
	return nil
}

func toggleAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("toggle: schedule id required")
	}

	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := signalContext()
	defer cancel()

	records, err := e.manager.Toggle(ctx, e.project, id)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID == id {
			state := "enabled"
			if !r.Enabled {
				state = "disabled"
			}
			fmt.Printf("%s is now %s\n", id, state)
			return nil
		}
	}
	fmt.Printf("no schedule with id %s\n", id)
	return nil
}

func deleteAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("delete: schedule id required")
	}

	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := signalContext()
	defer cancel()

	before := len(e.manager.List(e.project))
	records, err := e.manager.Delete(ctx, e.project, id)
	if err != nil {
		return err
	}
	if len(records) == before {
		fmt.Printf("no schedule with id %s\n", id)
		return nil
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func tasksAction(c *cli.Context) error {
	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := signalContext()
	defer cancel()

	out, err := e.manager.OSTasks(ctx)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println("no registered tasks")
		return nil
	}
	fmt.Println(out)
	return nil
}

func runAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("run: schedule id required")
	}

	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	var target *schedule.Record
	for _, r := range e.manager.List(e.project) {
		if r.ID == id {
			rec := r
			target = &rec
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no schedule with id %s", id)
	}

	ctx, cancel := signalContext()
	defer cancel()

	launcher := termlaunch.New(e.target, e.log)
	if err := launcher.Open(ctx, target.ScriptPath); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	fmt.Printf("launched %s\n", target.ScriptPath)
	return nil
}

func nextAction(c *cli.Context) error {
	expr := c.Args().First()
	if expr == "" {
		return errors.New("next: cron expression required")
	}

	tr := cronspec.Translate(expr)
	fmt.Printf("start %s, repeat %s\n", tr.StartTime, tr.Repeat)
	if next := cronspec.Next(expr, time.Now()); !next.IsZero() {
		fmt.Printf("next fire %s\n", next.Format(time.RFC1123))
	}
	return nil
}

func configShowAction(c *cli.Context) error {
	e, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer e.close()

	b, err := json.MarshalIndent(e.cfg, "", "  ")
	if err != nil {
		return err
	}
	if e.cfgPath != "" {
		fmt.Printf("// %s\n", e.cfgPath)
	}
	fmt.Println(string(b))
	return nil
}

func configWatchAction(c *cli.Context) error {
	path := c.GlobalString("config")
	if path == "" {
		return errors.New("config watch: --config is required")
	}

	log := logx.NewConsole("debug")
	mgr := config.NewManager(afero.NewOsFs(), path, log)
	if _, err := mgr.Load(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	updates := mgr.Subscribe(1)
	defer mgr.Unsubscribe(updates)
	go func() {
		for cfg := range updates {
			b, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				continue
			}
			fmt.Printf("-- reloaded %s\n%s\n", time.Now().Format(time.RFC3339), b)
		}
	}()

	fmt.Printf("watching %s (ctrl-c to stop)\n", path)
	return mgr.Watch(ctx)
}
