package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/pkg/config"
	"github.com/logsieve/logsieve/pkg/genlog"
)

type GenerateArgs struct {
	*RootArgs

	ConfigPath  string
	Dir         string
	Interval    string
	Lines       int
	FailureRate float64
	Count       int
}

func NewGenerateArgs(rootArgs *RootArgs) *GenerateArgs {
	return &GenerateArgs{
		RootArgs: rootArgs,
	}
}

func (ga *GenerateArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ga.ConfigPath, "config", "", "Path to the logsieve configuration file")
	cmd.Flags().StringVar(&ga.Interval, "interval", "", "Delay between batches, e.g. 5s")
	cmd.Flags().IntVar(&ga.Lines, "lines", 0, "Lines written per batch file")
	cmd.Flags().Float64Var(&ga.FailureRate, "failure-rate", 0, "Fraction of failed-login lines, between 0 and 1")
	cmd.Flags().IntVar(&ga.Count, "count", 0, "Number of batches to write, 0 means until interrupted")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// NewGenerateCmd creates the generate subcommand, which feeds the watched
// directory with synthetic sshd auth-log batches.
func NewGenerateCmd(ga *GenerateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Write synthetic auth-log batches into the watched directory",
		Example: `  # One batch every 5 seconds into logs/raw, until interrupted:
  logsieve generate

  # Ten fast batches into an explicit directory:
  logsieve generate ./logs/raw --interval 100ms --count 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ga.Dir = args[0]
			}

			return runGenerate(cmd, ga)
		},
	}
	ga.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, ga *GenerateArgs) error {
	cfg := config.NewConfig()

	configPath := ga.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	cl, err := config.NewLoaderFromFile(configPath)
	if err != nil {
		slog.Debug("could not read config, using defaults", slog.Any("err", err))
	} else {
		cfg, err = cl.Load()
		if err != nil {
			return fmt.Errorf("invalid config %q: %w", configPath, err)
		}
	}

	applyGenerateOverrides(cmd, ga, cfg.Generator)

	dir := ga.Dir
	if dir == "" {
		dir = cfg.Watch.RawDir
	}

	g, err := genlog.New(cfg.Generator)
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	slog.Info("generating log batches",
		slog.String("dir", dir),
		slog.Duration("interval", g.Interval()),
	)

	if err := g.Run(cmd.Context(), dir, ga.Count); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	return nil
}

func applyGenerateOverrides(cmd *cobra.Command, ga *GenerateArgs, cfg *genlog.Config) {
	if ga.Interval != "" {
		cfg.Interval = ga.Interval
	}
	if ga.Lines > 0 {
		cfg.LinesPerFile = ga.Lines
	}
	if cmd.Flags().Changed("failure-rate") {
		rate := ga.FailureRate
		cfg.FailureRate = &rate
	}
}
