// Package cmd provides CLI commands for the nextflow binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// TUIFlag enables the Bubble Tea interactive mode.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can reject it with an explicit
// message instead of a generic "flag not defined" error.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		TUIFlag,
	}
}

// HistoryFlags returns the flags selecting the run-history backend, shared
// by kuberun and log.
func HistoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "history-backend",
			Usage: "Run history backend: fs, redis, or none (default: fs)",
		},
		&cli.StringFlag{
			Name:  "history-path",
			Usage: "History file path (fs backend)",
		},
		&cli.StringFlag{
			Name:  "redis-url",
			Usage: "Redis connection URL (redis backend)",
		},
	}
}
