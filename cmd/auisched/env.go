package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"auisched/internal/config"
	"auisched/internal/platform"
	"auisched/internal/schedule"
	"auisched/internal/storage"
	"auisched/internal/taskgw"
	"auisched/pkg/logx"
)

// defaultConfigPaths are probed in order when --config is not given.
var defaultConfigPaths = []string{"auisched.yaml", "auisched.yml", "auisched.json"}

// env is the per-invocation wiring: config, logger, audit store, scheduler
// bridge, and the manager on top.
type env struct {
	cfg     *config.Config
	cfgPath string
	project string
	target  platform.Platform

	logSvc *logx.Service
	log    logx.Logger
	audit  storage.Store

	manager *schedule.Manager
}

func bootstrap(c *cli.Context) (*env, error) {
	cfg, cfgPath, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	target, err := platform.Parse(c.GlobalString("platform"))
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console == nil || *cfg.Log.Console,
		File: logx.FileConfig{
			Enabled: cfg.Log.File.Enabled,
			Path:    cfg.Log.File.Path,
		},
	})

	audit, err := storage.Open(storage.Config{
		Driver: cfg.Audit.Driver,
		Path:   cfg.Audit.Path,
	}, log)
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("open audit store: %w", err)
	}

	bridge, err := taskgw.NewBridge(cfg.Scheduler.Backend, target,
		taskgw.NewExecRunner(), cfg.Scheduler.TaskPrefix, log)
	if err != nil {
		if audit != nil {
			audit.Close()
		}
		logSvc.Close()
		return nil, err
	}

	mgr := schedule.NewManager(schedule.Options{
		Fs:            afero.NewOsFs(),
		Gateway:       taskgw.NewGateway(bridge, log),
		Target:        target,
		AgentCommand:  cfg.Agent.Command,
		SessionMarker: cfg.Agent.SessionMarker,
		Audit:         audit,
		Log:           log,
	})

	return &env{
		cfg:     cfg,
		cfgPath: cfgPath,
		project: c.GlobalString("project"),
		target:  target,
		logSvc:  logSvc,
		log:     log,
		audit:   audit,
		manager: mgr,
	}, nil
}

func (e *env) close() {
	if e.audit != nil {
		_ = e.audit.Close()
	}
	_ = e.logSvc.Close()
}

// loadConfig resolves the config file. An explicit --config path must exist;
// without one the default locations are probed and built-in defaults apply
// when nothing is found.
func loadConfig(path string) (*config.Config, string, error) {
	fs := afero.NewOsFs()
	if path != "" {
		cfg, err := config.NewManager(fs, path, logx.Nop()).Load()
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, path, nil
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := config.NewManager(fs, p, logx.Nop()).Load()
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", p, err)
		}
		return cfg, p, nil
	}
	return config.Default(), "", nil
}
