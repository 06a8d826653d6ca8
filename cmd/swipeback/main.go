// Package main provides the CLI entrypoint for swipeback.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grandinquisitor/swipeback/internal/alphabet"
	"github.com/grandinquisitor/swipeback/internal/config"
	"github.com/grandinquisitor/swipeback/internal/generator"
	"github.com/grandinquisitor/swipeback/internal/level"
	"github.com/grandinquisitor/swipeback/internal/model"
	"github.com/grandinquisitor/swipeback/internal/soundbank"
	"github.com/grandinquisitor/swipeback/internal/statsui"
	"github.com/grandinquisitor/swipeback/internal/store"
	"github.com/grandinquisitor/swipeback/internal/tui"
)

const (
	defaultLevel       = 2
	defaultTrials      = 20
	defaultShowMs      = 1500
	defaultGapMs       = 1000
	defaultCurveWindow = 10
)

var (
	playLevel    int
	playTrials   int
	playAlphabet string
	playSound    bool
	playPlayer   string
	playAdaptive bool
	playUp       int
	playDown     int
	playShowMs   int
	playGapMs    int

	statsLevel       int
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "swipeback",
		Short:         "TUI dual n-back trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	defaults := level.DefaultRules()
	rootCmd.Flags().IntVar(&playLevel, "level", defaultLevel, "n-back lag (1-9)")
	rootCmd.Flags().IntVar(&playTrials, "trials", defaultTrials, "trials per round (10-50)")
	rootCmd.Flags().StringVar(&playAlphabet, "alphabet", alphabet.DefaultName, "letter preset for audio cues")
	rootCmd.Flags().BoolVar(&playSound, "sound", false, "play letter cue audio files")
	rootCmd.Flags().StringVar(&playPlayer, "player", "", "audio player command (default: autodetect)")
	rootCmd.Flags().BoolVar(&playAdaptive, "adaptive", true, "adjust level between rounds based on score")
	rootCmd.Flags().IntVar(&playUp, "up-threshold", defaults.Up, "overall percent to level up")
	rootCmd.Flags().IntVar(&playDown, "down-threshold", defaults.Down, "overall percent below which to level down")
	rootCmd.Flags().IntVar(&playShowMs, "show-ms", defaultShowMs, "stimulus display time in milliseconds")
	rootCmd.Flags().IntVar(&playGapMs, "gap-ms", defaultGapMs, "inter-trial gap in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAlphabetsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "level", &playLevel, fileCfg.Play.Level)
	applyIntConfig(cmd, "trials", &playTrials, fileCfg.Play.Trials)
	applyStringConfig(cmd, "alphabet", &playAlphabet, fileCfg.Play.Alphabet)
	applyBoolConfig(cmd, "sound", &playSound, fileCfg.Play.Sound)
	applyStringConfig(cmd, "player", &playPlayer, fileCfg.Play.Player)
	applyIntConfig(cmd, "show-ms", &playShowMs, fileCfg.Play.ShowMs)
	applyIntConfig(cmd, "gap-ms", &playGapMs, fileCfg.Play.GapMs)
	applyBoolConfig(cmd, "adaptive", &playAdaptive, fileCfg.Adaptive.Enabled)
	applyIntConfig(cmd, "up-threshold", &playUp, fileCfg.Adaptive.UpThreshold)
	applyIntConfig(cmd, "down-threshold", &playDown, fileCfg.Adaptive.DownThreshold)

	cfg := model.Config{
		Level:         playLevel,
		Trials:        playTrials,
		Alphabet:      playAlphabet,
		Sound:         playSound,
		Player:        playPlayer,
		Adaptive:      playAdaptive,
		UpThreshold:   playUp,
		DownThreshold: playDown,
		ShowMs:        playShowMs,
		GapMs:         playGapMs,
	}
	rules := level.Rules{
		Up:          cfg.UpThreshold,
		Down:        cfg.DownThreshold,
		Min:         model.MinLevel,
		Max:         model.MaxLevel,
		DownEnabled: cfg.DownThreshold > 0,
	}
	if err := validateConfig(cfg, rules); err != nil {
		return err
	}

	symbols, err := alphabet.Get(cfg.Alphabet)
	if err != nil {
		return err
	}

	var bank *soundbank.Bank
	if cfg.Sound {
		bank, err = soundbank.Load(config.DefaultSoundDir(), symbols)
		if err != nil {
			return soundLoadError(err)
		}
		if err := bank.ResolvePlayer(cfg.Player); err != nil {
			return err
		}
		if missing := bank.Missing(symbols); len(missing) > 0 {
			logErrf("no cue files for %s; those letters will be silent\n", string(missing))
		}
	}

	// Play continues without history when the database is unusable.
	var st *store.Store
	st, err = store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db, playing without history: %v\n", err)
		st = nil
	}
	defer func() {
		if st == nil {
			return
		}
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	gen := generator.New(symbols)
	model := tui.NewModel(cfg, st, gen, bank, rules)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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

func newAlphabetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabets",
		Short: "List letter presets",
		Args:  cobra.NoArgs,
		RunE:  runAlphabetsCmd,
	}
}

func runAlphabetsCmd(cmd *cobra.Command, _ []string) error {
	for _, name := range alphabet.Names() {
		symbols, err := alphabet.Get(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, string(symbols)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLevel, "level", 0, "level filter (0 = all)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLevel < 0 || statsLevel > model.MaxLevel {
		return fmt.Errorf("--level must be between 0 and %d", model.MaxLevel)
	}

	cfg := model.StatsConfig{
		Level:       statsLevel,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func validateConfig(cfg model.Config, rules level.Rules) error {
	if cfg.Level < model.MinLevel || cfg.Level > model.MaxLevel {
		return fmt.Errorf("--level must be between %d and %d", model.MinLevel, model.MaxLevel)
	}
	if cfg.Trials < model.MinTrials || cfg.Trials > model.MaxTrials {
		return fmt.Errorf("--trials must be between %d and %d", model.MinTrials, model.MaxTrials)
	}
	if cfg.Trials < generator.MinTrialsFor(cfg.Level) {
		return fmt.Errorf("--trials must be >= %d for level %d", generator.MinTrialsFor(cfg.Level), cfg.Level)
	}
	if cfg.ShowMs <= 0 {
		return fmt.Errorf("--show-ms must be > 0")
	}
	if cfg.GapMs <= 0 {
		return fmt.Errorf("--gap-ms must be > 0")
	}
	if err := rules.Validate(); err != nil {
		return err
	}
	return nil
}

func soundLoadError(err error) error {
	lines := []string{
		fmt.Sprintf("failed to load letter cues: %v", err),
		fmt.Sprintf("expected cue files at: %s", config.DefaultSoundDir()),
		"Name files after their letter, e.g. c.wav",
		"Or run without sound: swipeback --sound=false",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := level.DefaultRules()
	return fmt.Sprintf(`# swipeback configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# level = %d              # n-back lag (1-9)
# trials = %d            # Trials per round (10-50)
# alphabet = %q     # Letter preset (swipeback alphabets)
# sound = false          # Play letter cue audio files
# player = ""            # Audio player command (default: autodetect)
# show-ms = %d         # Stimulus display time in milliseconds
# gap-ms = %d          # Inter-trial gap in milliseconds

[adaptive]
# enabled = true         # Adjust level between rounds based on score
# up-threshold = %d      # Overall percent to level up
# down-threshold = %d    # Overall percent below which to level down
`,
		defaultLevel,
		defaultTrials,
		alphabet.DefaultName,
		defaultShowMs,
		defaultGapMs,
		defaults.Up,
		defaults.Down,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
