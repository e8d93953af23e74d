package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/ohsu-comp-bio/nextflow/launcher"
	"github.com/ohsu-comp-bio/nextflow/log"
	"github.com/ohsu-comp-bio/nextflow/types"
)

// DefaultBinary is the driver binary resolved from PATH when no explicit
// path is configured.
const DefaultBinary = "nextflow-k8s-driver"

// ExecDriver runs the cluster driver as an external process.
//
// The launch configuration is written to the driver's stdin as JSON. The
// driver may emit a length-prefixed msgpack launch_result frame on stdout;
// when present its status overrides the process exit code. Stderr is
// captured for diagnostics.
type ExecDriver struct {
	path   string
	logger *log.SugaredLogger

	launched bool
	exitCode int
	result   *LaunchResultFrame
	stderr   bytes.Buffer
}

// NewExecDriver creates a driver invoking the binary at path.
func NewExecDriver(path string, logger *log.SugaredLogger) *ExecDriver {
	if path == "" {
		path = DefaultBinary
	}
	return &ExecDriver{path: path, logger: logger}
}

// driverInput is the JSON structure written to the driver stdin.
type driverInput struct {
	Version  string                 `json:"version"`
	Pipeline string                 `json:"pipeline"`
	Args     []string               `json:"args,omitempty"`
	Config   *launcher.LaunchConfig `json:"config"`
}

// Launch starts the driver process and blocks until it exits. A non-zero
// driver exit is not an error here; it surfaces as the Shutdown status.
func (d *ExecDriver) Launch(ctx context.Context, pipeline string, args []string, cfg *launcher.LaunchConfig) error {
	cmd := exec.CommandContext(ctx, d.path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("creating driver stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating driver stdout pipe: %w", err)
	}
	cmd.Stderr = &d.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting driver %q: %w", d.path, err)
	}

	input := driverInput{
		Version:  types.Version,
		Pipeline: pipeline,
		Args:     args,
		Config:   cfg,
	}
	if err := json.NewEncoder(stdin).Encode(input); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("writing driver input: %w", err)
	}
	if err := stdin.Close(); err != nil {
		d.logger.Warnf("closing driver stdin: %v", err)
	}

	// Drain stdout before Wait: Wait closes the pipe underneath the reader.
	d.result = d.readResult(stdout)

	waitErr := cmd.Wait()
	d.launched = true
	d.exitCode = 0

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return fmt.Errorf("waiting for driver: %w", waitErr)
		}
		d.exitCode = exitErr.ExitCode()
	}

	if msg := strings.TrimSpace(d.stderr.String()); msg != "" {
		d.logger.Debugf("driver stderr: %s", msg)
	}
	return nil
}

// readResult consumes the frame stream, keeping the last launch_result.
// Stream problems are logged, not fatal: the exit code still carries the
// outcome.
func (d *ExecDriver) readResult(stdout io.Reader) *LaunchResultFrame {
	var result *LaunchResultFrame
	decoder := NewFrameDecoder(stdout)
	for {
		payload, err := decoder.ReadFrame()
		if err != nil {
			if err != io.EOF {
				d.logger.Warnf("driver stream ended abnormally: %v", err)
			}
			return result
		}
		frame, err := DecodeLaunchResult(payload)
		if err != nil {
			d.logger.Warnf("undecodable driver frame: %v", err)
			continue
		}
		if frame != nil {
			result = frame
		}
	}
}

// Shutdown finalizes the driver and returns the launch status code: the
// launch_result frame status when one was emitted, else the exit code.
func (d *ExecDriver) Shutdown() (int, error) {
	if !d.launched {
		return 0, errors.New("driver was never launched")
	}
	if d.result != nil {
		if d.result.Message != "" {
			d.logger.Infof("driver result: %s", d.result.Message)
		}
		return d.result.Status, nil
	}
	return d.exitCode, nil
}

// Stderr returns the captured driver stderr output.
func (d *ExecDriver) Stderr() string {
	return d.stderr.String()
}
