package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ohsu-comp-bio/nextflow/cli/config"
	"github.com/ohsu-comp-bio/nextflow/driver"
	"github.com/ohsu-comp-bio/nextflow/history"
	"github.com/ohsu-comp-bio/nextflow/launcher"
	"github.com/ohsu-comp-bio/nextflow/log"
	"github.com/ohsu-comp-bio/nextflow/runname"
	"github.com/ohsu-comp-bio/nextflow/types"
)

// exitLaunchError is the exit code for launches that fail before the driver
// reports a status of its own.
const exitLaunchError = 1

// KubeRunCommand returns the kuberun command.
// The driver's status code becomes the process exit code, unmodified.
func KubeRunCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Run name (minted from history when omitted)",
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Usage:   "Cluster namespace",
		},
		&cli.StringSliceFlag{
			Name:    "volume-mount",
			Aliases: []string{"v"},
			Usage:   "Volume mount as claim:path (repeatable)",
		},
		&cli.StringFlag{
			Name:  "head-image",
			Usage: "Container image for the driver head",
		},
		&cli.StringFlag{
			Name:   "pod-image",
			Usage:  "Deprecated alias for --head-image",
			Hidden: true,
		},
		&cli.IntFlag{
			Name:  "head-cpus",
			Usage: "CPU request for the driver head",
		},
		&cli.StringFlag{
			Name:  "head-memory",
			Usage: "Memory request for the driver head",
		},
		&cli.StringFlag{
			Name:  "head-prescript",
			Usage: "Script run in the head before the launch",
		},
		&cli.StringSliceFlag{
			Name:   "remote-config",
			Usage:  "Remote config refs merged over the local config (repeatable)",
			Hidden: true,
		},
		&cli.StringFlag{
			Name:  "remote-profile",
			Usage: "Profile to select among the merged configs",
		},
		&cli.BoolFlag{
			Name:    "background",
			Aliases: []string{"bg"},
			Usage:   "Detach the driver after submission",
		},
		&cli.BoolFlag{
			Name:  "ansi-log",
			Usage: "Enable ANSI logging (unsupported for cluster launches)",
		},
		&cli.StringFlag{
			Name:  "driver",
			Usage: "Path to the driver binary",
			Value: driver.DefaultBinary,
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Local YAML config path",
		},
	}
	flags = append(flags, HistoryFlags()...)

	return &cli.Command{
		Name:      "kuberun",
		Usage:     "Launch a pipeline execution on a Kubernetes cluster",
		ArgsUsage: "<pipeline|-> [script args...]",
		Flags:     flags,
		Action:    kubeRunAction,
	}
}

// historyChoice holds the parsed history backend configuration.
type historyChoice struct {
	backend  string
	path     string
	redisURL string
}

// openHistory builds the history store for a choice. A nil store with a nil
// error means history is disabled.
func openHistory(choice historyChoice) (history.Store, error) {
	switch choice.backend {
	case "", "fs":
		path := choice.path
		if path == "" {
			path = history.DefaultFileName
		}
		return history.NewFileStore(path)

	case "redis":
		if choice.redisURL == "" {
			return nil, fmt.Errorf("redis history backend requires --redis-url")
		}
		return history.NewRedisStore(choice.redisURL, "nextflow:history")

	case "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("invalid history backend: %s (must be fs, redis, or none)", choice.backend)
	}
}

// historyChoiceFrom merges the flag values over the config file values.
func historyChoiceFrom(c *cli.Context, cfg *config.Config) historyChoice {
	choice := historyChoice{
		backend:  cfg.History.Backend,
		path:     cfg.History.Path,
		redisURL: cfg.History.RedisURL,
	}
	if c.IsSet("history-backend") {
		choice.backend = c.String("history-backend")
	}
	if c.IsSet("history-path") {
		choice.path = c.String("history-path")
	}
	if c.IsSet("redis-url") {
		choice.redisURL = c.String("redis-url")
	}
	return choice
}

// requestFrom assembles the launch request: config values first, flags win.
func requestFrom(c *cli.Context, cfg *config.Config) *launcher.Request {
	req := &launcher.Request{
		Pipeline:          c.Args().First(),
		Args:              c.Args().Tail(),
		RunName:           c.String("name"),
		AnsiLog:           c.Bool("ansi-log"),
		HeadImage:         cfg.HeadImage,
		DeprecatedImage:   c.String("pod-image"),
		HeadCPUs:          cfg.HeadCPUs,
		HeadMemory:        cfg.HeadMemory,
		HeadPreScript:     cfg.HeadPreScript,
		Namespace:         cfg.Namespace,
		VolumeMounts:      cfg.VolumeMounts,
		RemoteConfigFiles: c.StringSlice("remote-config"),
		RemoteProfile:     c.String("remote-profile"),
		Background:        c.Bool("background"),
	}
	if v := c.String("head-image"); v != "" {
		req.HeadImage = v
	}
	if v := c.Int("head-cpus"); v != 0 {
		req.HeadCPUs = v
	}
	if v := c.String("head-memory"); v != "" {
		req.HeadMemory = v
	}
	if v := c.String("head-prescript"); v != "" {
		req.HeadPreScript = v
	}
	if v := c.String("namespace"); v != "" {
		req.Namespace = v
	}
	if v := c.StringSlice("volume-mount"); len(v) > 0 {
		req.VolumeMounts = v
	}
	return req
}

func kubeRunAction(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	fetcher := config.NewFetcher()
	cfg, err := fetcher.Resolve(ctx, c.String("config"), c.StringSlice("remote-config"), c.String("remote-profile"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openHistory(historyChoiceFrom(c, cfg))
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	sessionID := uuid.NewString()
	logger := log.NewLogger(&types.RunInfo{
		Namespace: c.String("namespace"),
		SessionID: sessionID,
	}).Sugar()

	driverPath := c.String("driver")
	if !c.IsSet("driver") && cfg.Driver != "" {
		driverPath = cfg.Driver
	}

	orchestrator := launcher.New(
		driver.NewExecDriver(driverPath, logger),
		runname.NewResolver(store),
		logger,
	)

	start := time.Now()
	out, err := orchestrator.Launch(ctx, requestFrom(c, cfg))
	if err != nil {
		return cli.Exit(fmt.Sprintf("launch failed: %v", err), exitLaunchError)
	}

	if store != nil {
		rec := history.Record{
			Timestamp: start,
			Duration:  time.Since(start),
			Name:      out.RunName,
			Status:    launchStatus(out.Status),
			SessionID: sessionID,
			Command:   strings.Join(os.Args[1:], " "),
		}
		if err := store.Append(rec); err != nil {
			logger.Warnf("failed to record run history: %v", err)
		}
	}

	return cli.Exit("", out.Status)
}

func launchStatus(code int) string {
	if code == 0 {
		return "OK"
	}
	return "ERR"
}
