// Package launcher coordinates a single cluster launch: it validates the
// request, resolves the run name and container image, assembles the launch
// configuration, and hands off to an external driver whose status code
// becomes the process result.
package launcher

import (
	"context"
	"errors"

	"github.com/ohsu-comp-bio/nextflow/log"
	"github.com/ohsu-comp-bio/nextflow/runname"
)

// StdinMarker is the pipeline ref meaning "read the pipeline from stdin".
const StdinMarker = "-"

// ErrMissingPipeline indicates no pipeline reference could be determined
// from the arguments.
var ErrMissingPipeline = errors.New("no pipeline specified")

// Driver provisions and supervises the cluster-side workflow execution.
// Launch may block for the duration of provisioning and execution; Shutdown
// finalizes the driver and yields the launch status code.
type Driver interface {
	Launch(ctx context.Context, pipeline string, args []string, cfg *LaunchConfig) error
	Shutdown() (int, error)
}

// LaunchConfig is the immutable bundle handed to the driver. Assembled once
// per invocation after all validation passed, never mutated afterwards.
type LaunchConfig struct {
	// RunName is the resolved, normalized run name.
	RunName string `json:"run_name"`
	// Image is the resolved container image, empty for the driver default.
	Image string `json:"image,omitempty"`
	// HeadCPUs is the CPU request for the driver head.
	HeadCPUs int `json:"head_cpus,omitempty"`
	// HeadMemory is the memory request string for the driver head.
	HeadMemory string `json:"head_memory,omitempty"`
	// PreScript is run before the launch inside the head.
	PreScript string `json:"pre_script,omitempty"`
	// Background detaches the driver after submission.
	Background bool `json:"background,omitempty"`
	// Namespace is the cluster namespace.
	Namespace string `json:"namespace,omitempty"`
	// VolumeMounts are claim:path strings, passed through unvalidated.
	VolumeMounts []string `json:"volume_mounts,omitempty"`
	// RemoteConfig are the remote config refs merged into the run config.
	RemoteConfig []string `json:"remote_config,omitempty"`
	// RemoteProfile selects a profile among the merged remote configs.
	RemoteProfile string `json:"remote_profile,omitempty"`
}

// Request is the raw option surface for one launch, populated by the CLI.
type Request struct {
	// Pipeline is the first positional argument or StdinMarker.
	Pipeline string
	// Args are the script arguments following the pipeline ref.
	Args []string
	// RunName is the optional explicit run name.
	RunName string
	// AnsiLog is set when ANSI logging was requested; unsupported here.
	AnsiLog bool

	HeadImage         string
	DeprecatedImage   string // legacy pod-image alias for HeadImage
	HeadCPUs          int
	HeadMemory        string
	HeadPreScript     string
	Namespace         string
	VolumeMounts      []string
	RemoteConfigFiles []string
	RemoteProfile     string
	Background        bool
}

// Outcome reports a completed launch. Status is the driver's status code
// and is what the process exits with.
type Outcome struct {
	Status  int
	RunName string
}

// Orchestrator runs the launch pipeline for one invocation.
type Orchestrator struct {
	driver Driver
	names  *runname.Resolver
	logger *log.SugaredLogger
}

// New creates an orchestrator. The resolver decides run-name policy; a
// resolver without a history store requires explicit names.
func New(driver Driver, names *runname.Resolver, logger *log.SugaredLogger) *Orchestrator {
	return &Orchestrator{driver: driver, names: names, logger: logger}
}

// Launch validates the request, builds the LaunchConfig, and drives the
// external driver to completion. The returned status code is the driver's
// outcome and is propagated to the caller unmodified; every validation
// failure aborts before the driver is touched.
func (o *Orchestrator) Launch(ctx context.Context, req *Request) (*Outcome, error) {
	if req.Pipeline == "" {
		return nil, ErrMissingPipeline
	}

	if req.AnsiLog {
		o.logger.Warnf("ansi logging is not supported for cluster launches and will be ignored")
	}

	image, warnings := ResolveImage(req.HeadImage, req.DeprecatedImage)
	for _, w := range warnings {
		o.logger.Warnf("%s", w)
	}

	name, err := o.names.Resolve(req.RunName, true)
	if err != nil {
		return nil, err
	}

	cfg := &LaunchConfig{
		RunName:       name,
		Image:         image,
		HeadCPUs:      req.HeadCPUs,
		HeadMemory:    req.HeadMemory,
		PreScript:     req.HeadPreScript,
		Background:    req.Background,
		Namespace:     req.Namespace,
		VolumeMounts:  req.VolumeMounts,
		RemoteConfig:  req.RemoteConfigFiles,
		RemoteProfile: req.RemoteProfile,
	}

	o.logger.Infof("launching %s as run %q", req.Pipeline, name)

	// Driver failures are not interpreted here; they propagate as-is.
	if err := o.driver.Launch(ctx, req.Pipeline, req.Args, cfg); err != nil {
		return nil, err
	}

	status, err := o.driver.Shutdown()
	if err != nil {
		return nil, err
	}
	return &Outcome{Status: status, RunName: name}, nil
}
