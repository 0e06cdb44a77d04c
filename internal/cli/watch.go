package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/pkg/config"
	"github.com/logsieve/logsieve/pkg/log"
	"github.com/logsieve/logsieve/pkg/sieve"
	"github.com/logsieve/logsieve/pkg/stats"
)

const cmdExamples = `  # Watch the conventional directories (logs/raw -> logs/processed):
  logsieve

  # Watch explicit directories:
  logsieve /var/spool/app/raw /var/spool/app/processed

  # Override the marker keywords:
  logsieve --keyword Failed --keyword Denied

  # Only process files matching a pattern:
  logsieve --include "*.log"

  # Sweep files already present at startup, then keep watching:
  logsieve --process-existing

  # Feed the watcher with synthetic auth logs:
  logsieve generate --interval 2s`

type WatchArgs struct {
	*RootArgs

	ConfigPath      string
	RawDir          string
	ProcessedDir    string
	Keywords        []string
	Include         []string
	ProcessExisting bool
	WriteConfig     bool
	ShowConfig      bool
}

func NewWatchArgs(rootArgs *RootArgs) *WatchArgs {
	return &WatchArgs{
		RootArgs: rootArgs,
	}
}

func (wa *WatchArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&wa.ConfigPath, "config", "", "Path to the logsieve configuration file")
	cmd.Flags().StringVar(&wa.RawDir, "raw-dir", "", "Directory watched for new log files")
	cmd.Flags().StringVar(&wa.ProcessedDir, "processed-dir", "", "Directory receiving filtered log files")
	cmd.Flags().StringArrayVar(&wa.Keywords, "keyword", nil, "Marker substring retained by the filter, repeatable")
	cmd.Flags().StringArrayVar(&wa.Include, "include", nil, "Glob pattern limiting which file names are processed, repeatable")
	cmd.Flags().BoolVar(&wa.ProcessExisting, "process-existing", false, "Also process files already present at startup")
	cmd.Flags().BoolVar(&wa.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&wa.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewWatchCmd(wa *WatchArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch [raw-dir] [processed-dir]",
		Short:   "Default command, watches a directory and sanitizes created log files",
		Example: cmdExamples,
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				wa.RawDir = args[0]
			}
			if len(args) > 1 {
				wa.ProcessedDir = args[1]
			}

			return runWatch(cmd, wa)
		},
	}
	wa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, wa *WatchArgs) error {
	cfg := config.NewConfig()

	configPath := wa.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, wa.WriteConfig)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if wa.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	cl, err := config.NewLoaderFromFile(configPath)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))
	} else {
		err = cl.Validate()
		if err != nil {
			return fmt.Errorf("invalid config %q: %w", configPath, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return fmt.Errorf("invalid config %q: %w", configPath, err)
		}
	}

	applyWatchOverrides(cmd, wa, cfg.Watch)

	if wa.ShowConfig {
		// Print the active configuration and exit.
		slog.Info("active configuration", slog.String("path", configPath))

		yamlBytes, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		mustN(fmt.Fprintln(cmd.OutOrStdout(), string(yamlBytes)))

		return nil
	}

	runner, err := sieve.NewRunner(cfg.Watch)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	slog.Info("watching for new log files",
		slog.String("raw", runner.RawDir()),
		slog.String("processed", runner.ProcessedDir()),
		slog.String("keywords", runner.Filter().String()),
	)

	events := make(chan sieve.FileEvent, 64)
	runner.Subscribe(events)

	collector := stats.NewCollector()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		// Drains until the event channel closes, so no event delivered
		// before shutdown is lost.
		collector.Run(context.Background(), events)
	}()

	ctx := log.ContextWithLogger(cmd.Context(), slog.With(slog.String("component", "watch")))

	err = runner.Run(ctx)

	close(events)
	wg.Wait()

	snap := collector.Snapshot()
	slog.Info("watcher stopped",
		slog.Int64("files", snap.Files),
		slog.Int64("failures", snap.Failures),
		slog.Int64("lines", snap.Lines),
		slog.Int64("kept", snap.Kept),
		slog.String("written", humanize.Bytes(uint64(snap.BytesWritten))),
		slog.Duration("uptime", snap.Uptime),
	)

	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

// applyWatchOverrides layers CLI flags and positional args over the loaded
// configuration. Arguments take precedence over environment variables, which
// take precedence over the config file.
func applyWatchOverrides(cmd *cobra.Command, wa *WatchArgs, cfg *sieve.Config) {
	if wa.RawDir != "" {
		cfg.RawDir = wa.RawDir
	}
	if wa.ProcessedDir != "" {
		cfg.ProcessedDir = wa.ProcessedDir
	}
	if len(wa.Keywords) > 0 {
		cfg.Keywords = wa.Keywords
	}
	if len(wa.Include) > 0 {
		cfg.Include = wa.Include
	}
	if cmd.Flags().Changed("process-existing") {
		cfg.ProcessExisting = wa.ProcessExisting
	}
}
