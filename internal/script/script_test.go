package script

import (
	"strings"
	"testing"

	"auisched/internal/platform"
)

func TestGeneratePrimerModePosix(t *testing.T) {
	t.Parallel()
	got := Generate(platform.POSIX, Params{
		TeamName:   "Social Media",
		PrimerPath: "/proj/.aui/schedules/social-media-x1-primer.md",
	})

	if !strings.HasPrefix(got, "#!/bin/bash\n") {
		t.Fatalf("missing shebang:\n%s", got)
	}
	if !strings.Contains(got, "unset "+DefaultSessionMarker+"\n") {
		t.Fatalf("missing session marker reset:\n%s", got)
	}
	if !strings.Contains(got, DefaultAgentCommand+" -p ") {
		t.Fatalf("missing agent invocation:\n%s", got)
	}
	if !strings.Contains(got, "--dangerously-skip-permissions") {
		t.Fatalf("missing permission-skip flag:\n%s", got)
	}
	if !strings.Contains(got, "social-media-x1-primer.md") {
		t.Fatalf("missing primer path:\n%s", got)
	}
	if strings.Contains(got, utf8BOM) {
		t.Fatal("posix script must not carry a BOM")
	}
}

func TestGeneratePipelineModePosix(t *testing.T) {
	t.Parallel()
	got := Generate(platform.POSIX, Params{
		TeamName:         "ops",
		PrimerPath:       "/proj/.aui/schedules/ops-a-primer.md",
		DeployScriptPath: "/proj/deploy/it's-live.sh",
	})

	if !strings.Contains(got, `exec /bin/bash '/proj/deploy/it'"'"'s-live.sh'`) &&
		!strings.Contains(got, `exec /bin/bash "/proj/deploy/it's-live.sh"`) {
		t.Fatalf("deploy path not safely quoted:\n%s", got)
	}
	if strings.Contains(got, DefaultAgentCommand+" -p") {
		t.Fatalf("pipeline mode must not invoke the agent:\n%s", got)
	}
}

func TestGeneratePrimerModeWindows(t *testing.T) {
	t.Parallel()
	got := Generate(platform.Windows, Params{
		TeamName:   " Member's Team",
		PrimerPath: `C:\proj\.aui\schedules\members-team-x1-primer.md`,
	})

	if !strings.HasPrefix(got, utf8BOM) {
		t.Fatal("windows script must start with a UTF-8 BOM")
	}
	if !strings.Contains(got, "Remove-Item Env:\\"+DefaultSessionMarker) {
		t.Fatalf("missing session marker reset:\n%s", got)
	}
	// Apostrophes in interpolated strings must be doubled for PowerShell.
	if !strings.Contains(got, "'Member''s Team'") {
		t.Fatalf("team name not PowerShell-quoted:\n%s", got)
	}
	if !strings.Contains(got, `members-team-x1-primer.md`) {
		t.Fatalf("missing primer path:\n%s", got)
	}
}

func TestGeneratePipelineModeWindowsConvertsSeparators(t *testing.T) {
	t.Parallel()
	got := Generate(platform.Windows, Params{
		TeamName:         "ops",
		PrimerPath:       "C:/proj/.aui/schedules/ops-a-primer.md",
		DeployScriptPath: "C:/proj/deploy/run.ps1",
	})

	if !strings.Contains(got, `& 'C:\proj\deploy\run.ps1'`) {
		t.Fatalf("deploy path not converted to backslashes:\n%s", got)
	}
}

func TestGenerateAgentOverrides(t *testing.T) {
	t.Parallel()
	got := Generate(platform.POSIX, Params{
		TeamName:      "ops",
		PrimerPath:    "/p/x-primer.md",
		AgentCommand:  "myagent",
		SessionMarker: "AGENT_SESSION",
	})
	if !strings.Contains(got, "unset AGENT_SESSION\n") {
		t.Fatalf("marker override ignored:\n%s", got)
	}
	if !strings.Contains(got, "myagent -p ") {
		t.Fatalf("agent override ignored:\n%s", got)
	}
}
