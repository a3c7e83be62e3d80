// Package script renders the executable text the OS scheduler will invoke
// for a schedule, in either pipeline mode (run a deploy script directly) or
// primer mode (hand a primer document to the agent executable).
//
// Generation is pure: no I/O, no host inspection. The caller picks the
// target platform and writes the result wherever it wants.
package script

import (
	"strings"

	"al.essio.dev/pkg/shellescape"

	"auisched/internal/platform"
)

const (
	// DefaultAgentCommand is the agent executable invoked in primer mode.
	DefaultAgentCommand = "claude"
	// DefaultSessionMarker is the environment variable an interactive agent
	// session exports. Generated scripts clear it so the scheduled run (or
	// the deploy script it launches) does not mistake itself for a live
	// interactive session.
	DefaultSessionMarker = "CLAUDECODE"
)

// utf8BOM makes PowerShell decode the script as UTF-8; without it the
// interpreter assumes the ANSI codepage and mangles non-ASCII team names.
const utf8BOM = "\xEF\xBB\xBF"

// Params carries everything interpolated into a generated script.
type Params struct {
	TeamName string

	// PrimerPath is where the primer markdown lives. Always set; only read
	// by the script in primer mode.
	PrimerPath string

	// DeployScriptPath switches generation to pipeline mode when non-empty.
	DeployScriptPath string

	// AgentCommand and SessionMarker default to DefaultAgentCommand and
	// DefaultSessionMarker when empty.
	AgentCommand  string
	SessionMarker string
}

// Generate renders the script text for the target platform.
func Generate(target platform.Platform, p Params) string {
	agent := p.AgentCommand
	if agent == "" {
		agent = DefaultAgentCommand
	}
	marker := p.SessionMarker
	if marker == "" {
		marker = DefaultSessionMarker
	}

	if target == platform.Windows {
		return generatePowerShell(p, agent, marker)
	}
	return generateBash(p, agent, marker)
}

func generatePowerShell(p Params, agent, marker string) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString("# Scheduled run for " + psQuote(p.TeamName) + "\n")
	b.WriteString("Remove-Item Env:\\" + marker + " -ErrorAction SilentlyContinue\n")

	if p.DeployScriptPath != "" {
		b.WriteString("& " + psQuote(toWindowsPath(p.DeployScriptPath)) + "\n")
		return b.String()
	}

	prompt := primerPrompt(toWindowsPath(p.PrimerPath))
	b.WriteString("& " + psQuote(agent) + " -p " + psQuote(prompt) + " --dangerously-skip-permissions\n")
	return b.String()
}

func generateBash(p Params, agent, marker string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("# Scheduled run for " + shellescape.Quote(p.TeamName) + "\n")
	b.WriteString("unset " + marker + "\n")

	if p.DeployScriptPath != "" {
		b.WriteString("exec /bin/bash " + shellescape.Quote(toPosixPath(p.DeployScriptPath)) + "\n")
		return b.String()
	}

	prompt := primerPrompt(toPosixPath(p.PrimerPath))
	b.WriteString(shellescape.Quote(agent) + " -p " + shellescape.Quote(prompt) + " --dangerously-skip-permissions\n")
	return b.String()
}

func primerPrompt(primerPath string) string {
	return "Read the primer document at " + primerPath + " and follow it exactly."
}

// psQuote wraps s in PowerShell single quotes, doubling embedded quotes.
// Single-quoted PowerShell strings have no other metacharacters.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func toWindowsPath(p string) string { return strings.ReplaceAll(p, "/", "\\") }
func toPosixPath(p string) string   { return strings.ReplaceAll(p, "\\", "/") }
