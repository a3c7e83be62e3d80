package taskgw

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// RunResult is the full outcome of one host command invocation.
// ExitCode is meaningful only when the returned error is nil.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution so bridge tests never spawn anything.
// stdin is piped to the child when non-empty. The error is non-nil only
// when the command could not be started at all; a non-zero exit is reported
// through ExitCode because several scheduler commands exit non-zero in
// perfectly healthy situations (schtasks query with no matches, crontab -l
// with an empty table).
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (RunResult, error)
}

type execRunner struct{}

// NewExecRunner returns the os/exec backed Runner used outside tests.
func NewExecRunner() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, stdin string, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	res := RunResult{Stdout: out.String(), Stderr: errb.String()}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}
