package driver

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ohsu-comp-bio/nextflow/launcher"
	"github.com/ohsu-comp-bio/nextflow/log"
	"github.com/ohsu-comp-bio/nextflow/types"
)

func testLogger() *log.SugaredLogger {
	return log.NewLogger(&types.RunInfo{Name: "test"}).WithOutput(io.Discard).Sugar()
}

// writeScript drops an executable shell script into a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script driver doubles require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-driver")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func testConfig() *launcher.LaunchConfig {
	return &launcher.LaunchConfig{RunName: "quirky-einstein", Namespace: "workflows"}
}

func TestExecDriver_ExitCodeIsOutcome(t *testing.T) {
	path := writeScript(t, "cat > /dev/null\nexit 7")
	d := NewExecDriver(path, testLogger())

	if err := d.Launch(context.Background(), "org/repo", nil, testConfig()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	status, err := d.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if status != 7 {
		t.Errorf("status = %d, want 7", status)
	}
}

func TestExecDriver_ResultFrameOverridesExitCode(t *testing.T) {
	frame, err := EncodeFrame(&LaunchResultFrame{
		Type:    LaunchResultType,
		Status:  5,
		Message: "driver pod reported failure",
	})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	framePath := filepath.Join(t.TempDir(), "frame.bin")
	if err := os.WriteFile(framePath, frame, 0o644); err != nil {
		t.Fatalf("writing frame: %v", err)
	}

	path := writeScript(t, "cat > /dev/null\ncat "+framePath+"\nexit 0")
	d := NewExecDriver(path, testLogger())

	if err := d.Launch(context.Background(), "org/repo", nil, testConfig()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	status, err := d.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if status != 5 {
		t.Errorf("status = %d, want frame status 5", status)
	}
}

func TestExecDriver_ReceivesLaunchConfigOnStdin(t *testing.T) {
	captured := filepath.Join(t.TempDir(), "input.json")
	path := writeScript(t, "cat > "+captured+"\nexit 0")
	d := NewExecDriver(path, testLogger())

	if err := d.Launch(context.Background(), "org/repo", []string{"--alpha"}, testConfig()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if _, err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	data, err := os.ReadFile(captured)
	if err != nil {
		t.Fatalf("reading captured input: %v", err)
	}
	input := string(data)
	for _, want := range []string{`"pipeline":"org/repo"`, `"run_name":"quirky-einstein"`, `"namespace":"workflows"`} {
		if !strings.Contains(input, want) {
			t.Errorf("driver input missing %s:\n%s", want, input)
		}
	}
}

func TestExecDriver_MissingBinary(t *testing.T) {
	d := NewExecDriver(filepath.Join(t.TempDir(), "does-not-exist"), testLogger())

	err := d.Launch(context.Background(), "org/repo", nil, testConfig())
	if err == nil {
		t.Fatal("expected start failure for missing binary")
	}
}

func TestExecDriver_ShutdownBeforeLaunch(t *testing.T) {
	d := NewExecDriver("irrelevant", testLogger())
	if _, err := d.Shutdown(); err == nil {
		t.Fatal("expected error for shutdown before launch")
	}
}

func TestExecDriver_CapturesStderr(t *testing.T) {
	path := writeScript(t, "cat > /dev/null\necho 'scheduling warning' >&2\nexit 0")
	d := NewExecDriver(path, testLogger())

	if err := d.Launch(context.Background(), "org/repo", nil, testConfig()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !strings.Contains(d.Stderr(), "scheduling warning") {
		t.Errorf("stderr = %q, want captured warning", d.Stderr())
	}
}
