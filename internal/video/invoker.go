package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"

	"github.com/1F47E/go-framereel/internal/logger"
	"github.com/1F47E/go-framereel/internal/storage"
)

// Invoker runs resolved codec commands.
type Invoker struct {
	// Stderr, when set, also receives the encoder's stderr as it is written.
	Stderr io.Writer
}

// Run executes cmd and waits for it. Cancelling ctx kills the process.
func (i *Invoker) Run(ctx context.Context, cmd Command) error {
	log := logger.Log.WithField("scope", "encode invoker")
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%w: empty command", ErrTemplate)
	}
	log.Debugf("Running encoder command: %s", cmd.String())

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	var stderr bytes.Buffer
	if i != nil && i.Stderr != nil {
		c.Stderr = io.MultiWriter(&stderr, i.Stderr)
	} else {
		c.Stderr = &stderr
	}

	if err := c.Run(); err != nil {
		return processError(ctx, cmd.Args[0], err, stderr.String())
	}
	if cmd.Output != "" && !storage.Exists(cmd.Output) {
		return fmt.Errorf("%w: %s", ErrOutputMissing, cmd.Output)
	}
	return nil
}

func processError(ctx context.Context, program string, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", program, ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrEncoderNotFound, program)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &EncodeProcessFailedError{
			Program:  program,
			ExitCode: exitErr.ExitCode(),
			Stderr:   tail(stderr),
		}
	}
	return fmt.Errorf("run %s: %w", program, err)
}
