package render

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// RunOptions controls one encoder invocation.
type RunOptions struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Runner abstracts subprocess execution so the supervisor can be tested
// without a real encoder binary.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) error
}

// CmdRunner executes commands with os/exec. Cancelling the context kills the
// running process.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) error {
	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	return cmd.Run()
}

var _ Runner = CmdRunner{}
