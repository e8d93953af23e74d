package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ohsu-comp-bio/nextflow/cli/config"
	"github.com/ohsu-comp-bio/nextflow/cli/render"
	"github.com/ohsu-comp-bio/nextflow/cli/tui"
	"github.com/ohsu-comp-bio/nextflow/history"
)

// LogCommand returns the log command, a read-only listing of past runs.
func LogCommand() *cli.Command {
	flags := append(ReadOnlyFlags(),
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of runs to show (0 = all)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Local YAML config path",
		},
	)
	flags = append(flags, HistoryFlags()...)

	return &cli.Command{
		Name:   "log",
		Usage:  "Show the history of pipeline runs",
		Flags:  flags,
		Action: logAction,
	}
}

func logAction(c *cli.Context) error {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	choice := historyChoiceFrom(c, cfg)
	if choice.backend == "none" {
		return cli.Exit("run history is disabled (history backend: none)", 1)
	}

	store, err := openHistory(choice)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}
	if records == nil {
		records = []history.Record{}
	}

	if c.Bool("tui") {
		return tui.Run(records)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(records)
}
