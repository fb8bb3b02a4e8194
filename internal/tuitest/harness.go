package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	defaultTimeout = 5 * time.Second
)

// Step is one scripted interaction: wait Delay, then write Input. Mouse
// clicks and keys come from the helpers in input.go.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Config describes the program to drive. Env entries are appended to the
// parent environment. Exit status 0 is always allowed; AllowedExitCodes
// adds more.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording is everything the program wrote plus the screens rebuilt from
// it. ExitCode is the allowed status the program exited with; -1 means it
// was killed by a signal.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
	ExitCode int
}

// Contains reports whether any frame drew text.
func (r *Recording) Contains(text string) bool {
	if r == nil {
		return false
	}
	for _, frame := range r.Frames {
		if strings.Contains(frame.Plain(), text) {
			return true
		}
	}
	return false
}

// Run starts cfg.Command on a pseudo terminal of the configured size, plays
// the steps, waits for the program to exit and replays its output into
// frames.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = withDefaults(cfg)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var output bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		capture(ptmx, &output)
	}()

	start := time.Now()
	if err := play(ctx, ptmx, cfg.Steps); err != nil {
		return nil, err
	}
	exitCode, err := wait(ctx, cmd, cfg)
	if err != nil {
		return nil, err
	}

	// Closing the PTY ends capture once the buffered output is read.
	_ = ptmx.Close()
	<-drained

	raw := output.Bytes()
	return &Recording{
		Raw:      raw,
		Frames:   replay(raw, cfg.Width, cfg.Height),
		Duration: time.Since(start),
		ExitCode: exitCode,
	}, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// capture copies the terminal's output into out, answering terminal
// queries on the way, until the PTY is closed.
func capture(ptmx *os.File, out *bytes.Buffer) {
	responder := newTerminalResponder(ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			responder.Process(buf[:n])
			out.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func play(ctx context.Context, ptmx *os.File, steps []Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

// wait returns the program's exit status when cfg allows it.
func wait(ctx context.Context, cmd *exec.Cmd, cfg Config) (int, error) {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		return 0, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && slices.Contains(cfg.AllowedExitCodes, exitErr.ExitCode()) {
		return exitErr.ExitCode(), nil
	}
	if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
		return -1, nil
	}
	return 0, fmt.Errorf("tuitest: program exited with error: %w", err)
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	if !slices.ContainsFunc(env, func(entry string) bool { return strings.HasPrefix(entry, "TERM=") }) {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}
