// Package main provides the CLI entrypoint for calma.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/calma/internal/blocker"
	"github.com/verte-zerg/calma/internal/chat"
	"github.com/verte-zerg/calma/internal/config"
	"github.com/verte-zerg/calma/internal/library"
	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/monitor"
	"github.com/verte-zerg/calma/internal/relax"
	"github.com/verte-zerg/calma/internal/snapshot"
	"github.com/verte-zerg/calma/internal/timer"
	"github.com/verte-zerg/calma/internal/tui"
)

const (
	defaultVolume       = relax.DefaultVolume
	defaultMinutes      = blocker.DefaultMinutes
	defaultReplyDelayMs = int(chat.DefaultReplyDelay / time.Millisecond)
	defaultGoalMinutes  = monitor.DefaultDailyGoalMinutes
	defaultCycles       = 4
	headlessLogLevel    = "warn"
)

var (
	appSnapshot string
	appLogLevel string
	appLogFile  string

	rootVolume       int
	rootMinutes      int
	rootReplyDelayMs int
	rootGoalMinutes  int

	breatheCycles int

	focusMinutes int

	resourcesCategory string
	resourcesFeatured bool
	resourcesQuery    string

	usagePeriod string

	snapshotOut   string
	snapshotForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "calma",
		Short:         "Digital wellbeing companion for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRootCmd,
	}

	rootCmd.PersistentFlags().StringVar(&appSnapshot, "snapshot", "", "snapshot YAML with the starting state")
	rootCmd.PersistentFlags().StringVar(&appLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&appLogFile, "log-file", "", "log file used while the TUI is open")

	rootCmd.Flags().IntVar(&rootVolume, "volume", defaultVolume, "relaxation volume (0-100)")
	rootCmd.Flags().IntVar(&rootMinutes, "minutes", defaultMinutes, "focus session length in minutes")
	rootCmd.Flags().IntVar(&rootReplyDelayMs, "reply-delay-ms", defaultReplyDelayMs, "chat reply delay in milliseconds")
	rootCmd.Flags().IntVar(&rootGoalMinutes, "goal", defaultGoalMinutes, "daily screen-time goal in minutes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newBreatheCmd())
	rootCmd.AddCommand(newFocusCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newResourcesCmd())
	rootCmd.AddCommand(newUsageCmd())

	return rootCmd
}

// loadFileConfig reads the config file and applies its [app] section to
// the persistent flags that were not set explicitly.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "snapshot", &appSnapshot, fileCfg.App.Snapshot)
	applyStringConfig(cmd, "log-level", &appLogLevel, fileCfg.App.LogLevel)
	applyStringConfig(cmd, "log-file", &appLogFile, fileCfg.App.LogFile)
	return fileCfg, nil
}

func loadSnapshot() (model.Snapshot, error) {
	path := appSnapshot
	if path == "" {
		path = config.DefaultSnapshotPath()
	}
	snap, err := snapshot.Load(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

// setupHeadless loads config and snapshot for commands that print to the
// terminal. Logs go to stderr.
func setupHeadless(cmd *cobra.Command) (config.FileConfig, model.Snapshot, error) {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return config.FileConfig{}, model.Snapshot{}, err
	}
	level := appLogLevel
	if level == "" && os.Getenv("CALMA_LOG_LEVEL") == "" {
		level = headlessLogLevel
	}
	log.Configure(log.Config{
		Level:  level,
		Output: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen},
	})
	snap, err := loadSnapshot()
	if err != nil {
		return config.FileConfig{}, model.Snapshot{}, err
	}
	return fileCfg, snap, nil
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "volume", &rootVolume, fileCfg.Relax.Volume)
	applyIntConfig(cmd, "minutes", &rootMinutes, fileCfg.Blocker.Minutes)
	applyIntConfig(cmd, "reply-delay-ms", &rootReplyDelayMs, fileCfg.Chat.ReplyDelayMs)
	applyIntConfig(cmd, "goal", &rootGoalMinutes, fileCfg.Monitor.DailyGoalMinutes)

	cfg := model.Config{
		SnapshotPath:     appSnapshot,
		Volume:           rootVolume,
		FocusMinutes:     rootMinutes,
		ReplyDelay:       time.Duration(rootReplyDelayMs) * time.Millisecond,
		DailyGoalMinutes: rootGoalMinutes,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logFile, err := openLogFile(appLogFile)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
	}
	if logFile != nil {
		defer func() {
			if cerr := logFile.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}()
		log.Configure(log.Config{Level: appLogLevel, Output: logFile})
	}

	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	catalog, err := library.Load(cmd.Context(), snap)
	if err != nil {
		return fmt.Errorf("failed to open resource catalog: %w", err)
	}
	defer func() {
		if cerr := catalog.Close(); cerr != nil {
			logErrf("failed to close resource catalog: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, snap, catalog, timer.NewVirtual())
	if err != nil {
		return err
	}
	defer m.Close()
	logger := log.WithComponent("cli")
	logger.Info().Str("snapshot", appSnapshot).Msg("starting tui")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openLogFile opens path for appending, or the default state log when
// path is empty.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the default snapshot for editing",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotCmd,
	}
	cmd.Flags().StringVar(&snapshotOut, "out", "", "output path (default: config dir snapshot.yaml)")
	cmd.Flags().BoolVar(&snapshotForce, "force", false, "overwrite an existing file")
	return cmd
}

func runSnapshotCmd(cmd *cobra.Command, _ []string) error {
	path := snapshotOut
	if path == "" {
		path = config.DefaultSnapshotPath()
	}
	if err := writeSnapshot(path, snapshotForce); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeSnapshot(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("snapshot already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat snapshot: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "snapshot-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(snapshot.DefaultYAML()); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func newBreatheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breathe",
		Short: "Guide breathing cycles in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runBreatheCmd,
	}
	cmd.Flags().IntVar(&breatheCycles, "cycles", defaultCycles, "number of breathing cycles")
	return cmd
}

func runBreatheCmd(cmd *cobra.Command, _ []string) error {
	if breatheCycles <= 0 {
		return fmt.Errorf("--cycles must be > 0")
	}
	_, snap, err := setupHeadless(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return breathe(ctx, cmd.OutOrStdout(), snapshot.Phases(snap.Breathing), breatheCycles, timer.NewTicker(timer.TickInterval))
}

// breathe prints each phase until cycles complete. Every tick advances the
// schedule by one second.
func breathe(ctx context.Context, w io.Writer, phases []timer.Phase, cycles int, ticker timer.Ticker) error {
	sched := timer.NewVirtual()
	seq, err := relax.NewBreathing(sched, phases)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeErr error
	announce := func(p timer.Phase) {
		if _, err := fmt.Fprintf(w, "%s (%ds)\n", p.Label, p.Seconds); err != nil && writeErr == nil {
			writeErr = err
			cancel()
		}
	}
	seq.OnPhaseChange(func(_ int, p timer.Phase) {
		if seq.Cycles() >= cycles {
			seq.Pause()
			cancel()
			return
		}
		announce(p)
	})
	if err := seq.Start(0); err != nil {
		return err
	}

	err = timer.Pump(ctx, sched, timer.TickInterval, ticker)
	if writeErr != nil {
		return fmt.Errorf("failed to write output: %w", writeErr)
	}
	if seq.Cycles() >= cycles {
		_, err := fmt.Fprintf(w, "Done: %d cycles.\n", seq.Cycles())
		return err
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a focus session in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runFocusCmd,
	}
	cmd.Flags().IntVar(&focusMinutes, "minutes", defaultMinutes, "focus session length in minutes")
	return cmd
}

func runFocusCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, snap, err := setupHeadless(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "minutes", &focusMinutes, fileCfg.Blocker.Minutes)
	if err := blocker.ValidateMinutes(focusMinutes); err != nil {
		return fmt.Errorf("--minutes must be between 1 and %d: %w", blocker.MaxMinutes, err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return focus(ctx, cmd.OutOrStdout(), snap, focusMinutes, timer.NewTicker(timer.TickInterval))
}

// focus runs one focus session and prints the remaining time each minute.
func focus(ctx context.Context, w io.Writer, snap model.Snapshot, minutes int, ticker timer.Ticker) error {
	sched := timer.NewVirtual()
	b, err := blocker.New(sched, snap.Apps, snap.Websites, minutes, snap.Dashboard.FocusSessionsDone)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeErr error
	printf := func(format string, args ...any) {
		if _, err := fmt.Fprintf(w, format, args...); err != nil && writeErr == nil {
			writeErr = err
			cancel()
		}
	}
	done := false
	b.OnComplete(func() {
		done = true
		cancel()
	})
	b.Session().OnTick(func(remaining int) {
		if remaining > 0 && remaining%60 == 0 {
			printf("%s left\n", blocker.FormatClock(remaining))
		}
	})
	b.Session().OnExpire(func() {
		printf("Time is up.\n")
	})
	if err := b.Start(); err != nil {
		return err
	}
	printf("%s %d min, blocking %d apps and %d sites.\n",
		b.Notice(), b.Minutes(), b.BlockedCount(), len(b.Sites()))
	if writeErr != nil {
		b.Stop()
		return fmt.Errorf("failed to write output: %w", writeErr)
	}

	err = timer.Pump(ctx, sched, timer.TickInterval, ticker)
	if !done {
		b.Stop()
	}
	if writeErr != nil {
		return fmt.Errorf("failed to write output: %w", writeErr)
	}
	if done || errors.Is(err, context.Canceled) {
		if _, err := fmt.Fprintln(w, b.Notice()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return err
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the wellbeing assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAskCmd,
	}
}

func runAskCmd(cmd *cobra.Command, args []string) error {
	_, snap, err := setupHeadless(cmd)
	if err != nil {
		return err
	}
	return ask(cmd.OutOrStdout(), snap.Chat, strings.Join(args, " "))
}

func ask(w io.Writer, script model.ChatScript, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return chat.ErrEmptyMessage
	}
	reply, rule := chat.FromScript(script).Respond(message)
	logger := log.WithComponent("cli")
	logger.Debug().Str("rule", rule).Msg("answered")
	if _, err := fmt.Fprintln(w, reply); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List library resources",
		Args:  cobra.NoArgs,
		RunE:  runResourcesCmd,
	}
	cmd.Flags().StringVar(&resourcesCategory, "category", library.AllCategories, "category id")
	cmd.Flags().BoolVar(&resourcesFeatured, "featured", false, "only featured resources")
	cmd.Flags().StringVar(&resourcesQuery, "query", "", "search title, description and author")
	return cmd
}

func runResourcesCmd(cmd *cobra.Command, _ []string) error {
	_, snap, err := setupHeadless(cmd)
	if err != nil {
		return err
	}
	return listResources(cmd.Context(), cmd.OutOrStdout(), snap, library.Filter{
		Category: resourcesCategory,
		Featured: resourcesFeatured,
		Query:    resourcesQuery,
	})
}

func listResources(ctx context.Context, w io.Writer, snap model.Snapshot, f library.Filter) error {
	catalog, err := library.Load(ctx, snap)
	if err != nil {
		return fmt.Errorf("failed to open resource catalog: %w", err)
	}
	defer func() {
		if cerr := catalog.Close(); cerr != nil {
			logErrf("failed to close resource catalog: %v\n", cerr)
		}
	}()

	cats, err := catalog.Categories(ctx)
	if err != nil {
		return err
	}
	if err := validateCategory(f.Category, cats); err != nil {
		return err
	}
	res, err := catalog.List(ctx, f)
	if err != nil {
		return err
	}
	if len(res) == 0 {
		_, err := fmt.Fprintln(w, "No resources found.")
		return err
	}
	rows := make([][]string, 0, len(res))
	for _, r := range res {
		star := ""
		if r.Featured {
			star = "*"
		}
		rows = append(rows, []string{fmt.Sprintf("%d", r.ID), star, r.Title, r.Kind, fmt.Sprintf("%d min", r.ReadMinutes), r.Author})
	}
	lines := monitor.FormatTable([]string{"ID", "", "Title", "Kind", "Length", "Author"}, rows, map[int]bool{0: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func validateCategory(id string, cats []model.Category) error {
	if id == "" {
		return nil
	}
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		if c.ID == id {
			return nil
		}
		ids = append(ids, c.ID)
	}
	return fmt.Errorf("--category must be one of: %s", strings.Join(ids, ", "))
}

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Print the screen-time report",
		Args:  cobra.NoArgs,
		RunE:  runUsageCmd,
	}
	cmd.Flags().StringVar(&usagePeriod, "period", string(monitor.PeriodToday), "summary period: today, week or month")
	cmd.Flags().IntVar(&rootGoalMinutes, "goal", defaultGoalMinutes, "daily screen-time goal in minutes")
	return cmd
}

func runUsageCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, snap, err := setupHeadless(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "goal", &rootGoalMinutes, fileCfg.Monitor.DailyGoalMinutes)
	if rootGoalMinutes <= 0 {
		return fmt.Errorf("--goal must be > 0")
	}
	period, err := monitor.ParsePeriod(usagePeriod)
	if err != nil {
		return fmt.Errorf("invalid --period value: %w", err)
	}
	u := monitor.New(snap, rootGoalMinutes)
	u.SetPeriod(period)
	out := cmd.OutOrStdout()
	return u.WriteReport(out, 0, monitor.UseColor(out))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# calma configuration
# Uncomment a value to enable it. CLI flags override config values.

[app]
# snapshot = %q   # Starting state (write one with: calma snapshot)
# log-level = "info"        # debug, info, warn, error
# log-file = %q

[relax]
# volume = %d               # Relaxation volume (0-100)

[blocker]
# minutes = %d              # Focus session length (1-%d)

[chat]
# reply-delay-ms = %d     # Assistant reply delay

[monitor]
# daily-goal-minutes = %d  # Daily screen-time goal
`,
		config.DefaultSnapshotPath(),
		config.DefaultLogPath(),
		defaultVolume,
		defaultMinutes,
		blocker.MaxMinutes,
		defaultReplyDelayMs,
		defaultGoalMinutes,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Volume < relax.MinVolume || cfg.Volume > relax.MaxVolume {
		return fmt.Errorf("--volume must be between %d and %d", relax.MinVolume, relax.MaxVolume)
	}
	if err := blocker.ValidateMinutes(cfg.FocusMinutes); err != nil {
		return fmt.Errorf("--minutes must be between 1 and %d", blocker.MaxMinutes)
	}
	if cfg.ReplyDelay < 0 {
		return fmt.Errorf("--reply-delay-ms must be >= 0")
	}
	if cfg.DailyGoalMinutes <= 0 {
		return fmt.Errorf("--goal must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
