package config

// Config is the auisched process configuration. Files may be YAML or JSON;
// both are decoded strictly (unknown keys are rejected).
type Config struct {
	Log       LogConfig       `json:"log"`
	Agent     AgentConfig     `json:"agent"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Audit     AuditConfig     `json:"audit"`
}

type LogConfig struct {
	Level string `json:"level,omitempty"`

	// Console is a pointer so "omitted" (default true) differs from an
	// explicit false.
	Console *bool         `json:"console,omitempty"`
	File    FileLogConfig `json:"file,omitempty"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// AgentConfig names the agent executable primer-mode scripts invoke and the
// environment marker they clear first.
type AgentConfig struct {
	Command       string `json:"command,omitempty"`
	SessionMarker string `json:"session_marker,omitempty"`
}

// SchedulerConfig selects the OS scheduler backend.
//
// Backend is one of "auto", "schtasks", "crontab", "systemd"; "auto" picks
// by host platform. TaskPrefix namespaces our jobs inside the OS scheduler.
type SchedulerConfig struct {
	Backend    string `json:"backend,omitempty"`
	TaskPrefix string `json:"task_prefix,omitempty"`
}

// AuditConfig configures the lifecycle audit trail ("none" disables it).
type AuditConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Console == nil {
		on := true
		c.Log.Console = &on
	}
	if c.Scheduler.Backend == "" {
		c.Scheduler.Backend = "auto"
	}
	if c.Scheduler.TaskPrefix == "" {
		c.Scheduler.TaskPrefix = "AUI"
	}
	if c.Audit.Driver == "" {
		c.Audit.Driver = "none"
	}
	// Agent command/marker defaults live in the script package; empty here
	// means "use those".
}
