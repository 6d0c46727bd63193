package tfrun

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
)

// Runner shells out to the terraform binary. The zero value runs
// "terraform" from PATH in the current directory.
type Runner struct {
	// Binary overrides the terraform executable
	Binary string
	// Dir is the working directory for every invocation
	Dir string
}

// Command is one finished terraform invocation
type Command struct {
	Args       []string
	ExitStatus int
	Stdout     string
	Stderr     string
	Duration   time.Duration
}

// Exec runs the binary with the given arguments and captures its streams.
// A non-zero exit is reported in the result, not as an error, callers
// decide per subcommand what failure means.
func (r *Runner) Exec(ctx context.Context, args ...string) (*Command, error) {
	binary := r.Binary
	if binary == "" {
		binary = "terraform"
	}

	log.Debug().Str("command", shellquote.Join(append([]string{binary}, args...)...)).Msg("running terraform")

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir

	var stdoutBuffer bytes.Buffer
	var stderrBuffer bytes.Buffer
	cmd.Stdout = &stdoutBuffer
	cmd.Stderr = &stderrBuffer

	start := time.Now()
	err := cmd.Run()

	res := &Command{
		Args:     args,
		Duration: time.Since(start),
		Stdout:   stdoutBuffer.String(),
		Stderr:   stderrBuffer.String(),
	}

	if err == nil {
		return res, nil
	}

	if exiterr, ok := err.(*exec.ExitError); ok {
		if status, ok := exiterr.Sys().(syscall.WaitStatus); ok {
			res.ExitStatus = status.ExitStatus()
		}
		return res, nil
	}

	// all other errors are real errors, e.g. the binary is missing
	return res, errors.Wrap(err, "could not run terraform")
}
