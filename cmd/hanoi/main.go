package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"

	"github.com/npratt/hanoi/internal/config"
	"github.com/npratt/hanoi/internal/events"
	"github.com/npratt/hanoi/internal/session"
	"github.com/npratt/hanoi/internal/shutdown"
	"github.com/npratt/hanoi/internal/stats"
	"github.com/npratt/hanoi/internal/storage"
	"github.com/npratt/hanoi/internal/tui"
)

var version = "dev"

// app carries the state shared by every command.
type app struct {
	v        *viper.Viper
	logLevel *slog.LevelVar
	logger   *slog.Logger
	stdin    io.Reader
}

func newApp(stderr io.Writer, stdin io.Reader) *app {
	logLevel := &slog.LevelVar{}
	return &app{
		v:        viper.New(),
		logLevel: logLevel,
		logger:   newJSONLogger(stderr, logLevel),
		stdin:    stdin,
	}
}

func main() {
	a := newApp(os.Stderr, os.Stdin)
	if err := a.rootCmd().ExecuteContext(context.Background()); err != nil {
		a.logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})
}

func (a *app) rootCmd() *cobra.Command {
	a.v.SetEnvPrefix("HANOI")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "hanoi",
		Short: "Tower of Hanoi for the terminal",
		Long: `hanoi is the Tower of Hanoi puzzle for the terminal.

Move every disk from the first tower to the third, one disk at a time,
never placing a larger disk on a smaller one. Each solved game is added
to a persistent record of games completed, best time and fewest moves.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.v.GetBool(FlagVerbose) {
				a.logLevel.Set(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .hanoi/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Log file path")
	rootCmd.PersistentFlags().String(FlagStorage, "", "Statistics backend: file, sqlite or memory")
	rootCmd.PersistentFlags().String(FlagStatsPath, "", "Statistics directory (file) or database (sqlite)")
	a.bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(a.versionCmd())
	rootCmd.AddCommand(a.playCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.eventsCmd())
	rootCmd.AddCommand(a.configCmd())
	return rootCmd
}

// loadConfig reads the layered configuration and applies any flags the
// user set explicitly on cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed(FlagLogFile) {
		cfg.Paths.Log = a.v.GetString(FlagLogFile)
	}
	if flags.Changed(FlagStorage) {
		cfg.Storage.Backend = a.v.GetString(FlagStorage)
	}
	if flags.Changed(FlagStatsPath) {
		cfg.Storage.Path = a.v.GetString(FlagStatsPath)
	}
	if flags.Changed(FlagDisks) {
		cfg.Game.DiskCount = a.v.GetInt(FlagDisks)
	}
	if flags.Changed(FlagTheme) {
		cfg.UI.Theme = a.v.GetString(FlagTheme)
	}
	if flags.Changed(FlagEphemeral) && a.v.GetBool(FlagEphemeral) {
		cfg.Storage.Backend = config.BackendMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (a *app) openStats(cfg *config.Config, logger *slog.Logger) (*stats.Store, storage.Store, error) {
	blob, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	store := stats.NewStore(blob,
		stats.WithKey(cfg.Storage.Key),
		stats.WithLogger(logger),
		stats.WithDefaultDiskCount(cfg.Game.DiskCount),
	)
	return store, blob, nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hanoi %s\n", version)
		},
	}
}

func (a *app) playCmd() *cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play the puzzle",
		Long: `Play the Tower of Hanoi.

On a terminal the full-screen board is used: 1, 2 and 3 pick towers, r
starts over, + and - change the disk count and q quits. Without a
terminal, or with --tui=false, commands are read line by line from
standard input (type help for the list).

Log output goes to the log file so it never mixes with the board.`,
		RunE: a.runPlay,
	}

	playCmd.Flags().Bool(FlagTUI, false, "Use the full-screen interface (default: auto-detect)")
	playCmd.Flags().Int(FlagDisks, 0, "Disks in the first game (3-7)")
	playCmd.Flags().String(FlagTheme, "", "Color theme: dark or light")
	playCmd.Flags().Bool(FlagEphemeral, false, "Keep statistics in memory for this run only")
	a.bindFlags(playCmd.Flags())
	return playCmd
}

func (a *app) runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	// Explicit flag wins, otherwise use the full-screen board on a terminal
	tuiEnabled := a.v.GetBool(FlagTUI)
	if !cmd.Flags().Changed(FlagTUI) {
		tuiEnabled = term.IsTerminal(int(os.Stdout.Fd()))
	}

	logResult, err := SetupPlayLogger(cfg.Paths.Log, a.logLevel, cfg.LogRotation)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	logger := logResult.Logger
	slog.SetDefault(logger)

	statsStore, blob, err := a.openStats(cfg, logger)
	if err != nil {
		_ = logResult.Close()
		return err
	}

	ctx := cmd.Context()
	sinkCtx, sinkCancel := context.WithCancel(ctx)

	router := events.NewRouter(events.DefaultBufferSize)
	logSink := events.NewLogSink(cfg.Paths.Events)
	if err := logSink.Start(sinkCtx, router.Subscribe()); err != nil {
		sinkCancel()
		_ = blob.Close()
		_ = logResult.Close()
		return fmt.Errorf("start event log: %w", err)
	}

	ctrl := session.New(statsStore,
		session.WithLogger(logger),
		session.WithEmitter(router),
		session.WithDiskCount(cfg.Game.DiskCount),
	)

	opts := []tui.Option{
		tui.WithEvents(router.Subscribe()),
		tui.WithTheme(cfg.UI.Theme),
		tui.WithAltScreen(cfg.UI.AltScreen),
		tui.WithForceTUI(cmd.Flags().Changed(FlagTUI) && tuiEnabled),
	}
	if w, ok := blob.(storage.Watcher); ok {
		changes, err := w.Watch(sinkCtx, statsStore.Key())
		if err != nil {
			logger.Warn("statistics watch unavailable", "error", err)
		} else {
			opts = append(opts, tui.WithStatsChanges(changes))
		}
	}
	ui := tui.New(ctrl, opts...)
	ctrl.Start(sinkCtx)

	logger.Info("hanoi starting",
		"version", version,
		"disks", cfg.Game.DiskCount,
		"backend", cfg.Storage.Backend,
		"events", cfg.Paths.Events,
		"tui", tuiEnabled,
	)

	runner := ui.Run
	if !tuiEnabled {
		out := cmd.OutOrStdout()
		runner = func(ctx context.Context) error {
			return ui.RunSimple(ctx, a.stdin, out)
		}
	}

	return shutdown.RunWithGracefulShutdown(ctx, logger, shutdown.DefaultTimeout, runner,
		func(context.Context) error {
			// Closing the router lets the sink drain before its file is closed
			router.Close()
			err := errors.Join(logSink.Stop(), blob.Close())
			sinkCancel()
			logger.Info("hanoi stopped",
				"events_logged", logSink.Written(),
				"events_dropped", router.Dropped(),
			)
			return errors.Join(err, logResult.Close())
		},
	)
}

func (a *app) statsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show player statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			store, blob, err := a.openStats(cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = blob.Close() }()

			rec := store.Load(cmd.Context())
			out := cmd.OutOrStdout()
			if a.v.GetBool(FlagJSON) {
				data, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return fmt.Errorf("encode statistics: %w", err)
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			tui.WriteStats(out, rec)
			return nil
		},
	}

	statsCmd.Flags().Bool(FlagJSON, false, "Output as JSON")
	a.bindFlags(statsCmd.Flags())

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase the statistics record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			store, blob, err := a.openStats(cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = blob.Close() }()

			if _, err := store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset statistics: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Statistics reset")
			return err
		},
	}
	statsCmd.AddCommand(resetCmd)

	return statsCmd
}

func (a *app) eventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent game events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printLine := func(line string) {
				_, _ = fmt.Fprintln(out, events.FormatLine(line))
			}

			if a.v.GetBool(FlagFollow) {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				_, _ = fmt.Fprintln(out, "Following events (Ctrl+C to stop)...")
				return events.Follow(ctx, cfg.Paths.Events, printLine)
			}

			lines, err := events.ReadLast(cfg.Paths.Events, a.v.GetInt(FlagCount))
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				_, _ = fmt.Fprintln(out, "No events yet")
				return nil
			}
			for _, line := range lines {
				printLine(line)
			}
			return nil
		},
	}

	eventsCmd.Flags().Bool(FlagFollow, false, "Follow event stream (like tail -f)")
	eventsCmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	a.bindFlags(eventsCmd.Flags())
	return eventsCmd
}

func (a *app) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, src := range config.Sources(a.v) {
				_, _ = fmt.Fprintf(out, "# from %s\n", src)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
	configCmd.AddCommand(showCmd)

	return configCmd
}
