// Package cmd wires the devtracker command tree.
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonbystrom/devtracker/internal/config"
	"github.com/simonbystrom/devtracker/internal/logger"
	"github.com/simonbystrom/devtracker/internal/roster"
	"github.com/simonbystrom/devtracker/internal/ui"
)

// Version is set by -ldflags during build.
var Version = "dev"

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	seed       string
	noSample   bool
}

// NewRootCommand builds the devtracker command. Without a subcommand it
// starts the dashboard.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "devtracker",
		Short:         "Track developers, their projects and tasks",
		Long:          "devtracker is a terminal dashboard for assigning projects and tasks to developers and exporting the roster as CSV.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/devtracker/devtracker.conf)")
	cmd.PersistentFlags().StringVar(&opts.seed, "seed", "", "YAML roster to load at startup")
	cmd.PersistentFlags().BoolVar(&opts.noSample, "no-sample", false, "start with an empty roster instead of the demo data")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// load resolves the config with flag overrides applied.
func (o *options) load() (config.Config, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if o.seed != "" {
		cfg.Data.Seed = o.seed
	}
	if o.noSample {
		cfg.Data.Sample = false
	}
	return cfg, nil
}

// loadRoster picks the startup roster: a seed file wins, then the demo
// roster, then an empty one.
func loadRoster(d config.Data) (roster.Roster, error) {
	switch {
	case d.Seed != "":
		return roster.LoadSeed(d.Seed)
	case d.Sample:
		return roster.Sample(), nil
	default:
		return roster.Roster{}, nil
	}
}

// setup loads config, logger and roster for a command run.
func (o *options) setup() (config.Config, *zap.Logger, roster.Roster, error) {
	cfg, err := o.load()
	if err != nil {
		return cfg, nil, roster.Roster{}, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return cfg, nil, roster.Roster{}, fmt.Errorf("init logger: %w", err)
	}
	r, err := loadRoster(cfg.Data)
	if err != nil {
		_ = log.Sync()
		return cfg, nil, roster.Roster{}, err
	}
	log.Debug("roster loaded",
		zap.String("seed", cfg.Data.Seed),
		zap.Bool("sample", cfg.Data.Sample),
		zap.Int("developers", len(r.Developers)))
	return cfg, log, r, nil
}

func runTUI(opts *options) error {
	cfg, log, r, err := opts.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	store := roster.NewStore(r, log)
	model := ui.NewApp(cfg, store, log)
	p := tea.NewProgram(model, tea.WithAltScreen())

	log.Info("dashboard started", zap.String("version", Version))
	if _, err := p.Run(); err != nil {
		log.Error("dashboard exited", zap.Error(err))
		return err
	}
	return nil
}
