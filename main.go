package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"puppyparty/internal/config"
	"puppyparty/internal/dog"
	"puppyparty/internal/engine"
	"puppyparty/internal/store"
	"puppyparty/internal/ui"
)

var errNoDog = errors.New("you don't have a dog yet, run `puppyparty adopt` first")

func main() {
	if err := execute(NewRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// logFile is the open puppyparty.log, if a command got far enough to open it.
var logFile *os.File

// execute runs cmd and records a failure in the log file before closing it.
func execute(cmd *cobra.Command) error {
	c, err := cmd.ExecuteC()
	if err != nil && logFile != nil {
		log.Error().Err(err).Str("command", c.Name()).Msg("command failed")
	}
	closeLog()
	return err
}

func closeLog() {
	if logFile == nil {
		return
	}
	log.Logger = zerolog.Nop()
	_ = logFile.Close()
	logFile = nil
}

// app bundles what every command needs. Close releases it in reverse order.
type app struct {
	store  store.Store
	engine *engine.Engine
}

func openApp(ctx context.Context, debug bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := setupLogger(cfg, debug); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	e := engine.New(st,
		engine.WithDecayInterval(cfg.DecayInterval),
		engine.WithWriteTimeout(cfg.WriteTimeout),
		engine.WithLogger(log.Logger),
	)
	if err := e.Initialize(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{store: st, engine: e}, nil
}

func (a *app) Close() {
	a.engine.Dispose()
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing store")
	}
}

// setupLogger sends logs to a file in the data directory; the terminal belongs to the UI.
// The file stays open until execute has logged the command's outcome.
func setupLogger(cfg config.Config, debug bool) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "puppyparty.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	closeLog()
	logFile = f

	level := cfg.Level()
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp().Logger()

	return nil
}

// flush waits briefly for background writes so one-shot commands persist before exit.
func flush(e *engine.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("timed out waiting for save")
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "puppyparty",
		Short:         "A digital dog companion for your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), debug)
			if err != nil {
				return err
			}
			defer a.Close()

			program := tea.NewProgram(ui.NewModel(a.engine), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("alas, there's been an error: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	rootCmd.AddCommand(
		newAdoptCmd(&debug),
		newCareCmd(&debug, "feed", "Feed your dog", "You fed your dog! 🍖", (*engine.Engine).Feed),
		newCareCmd(&debug, "play", "Play with your dog", "You played with your dog! 🎾", (*engine.Engine).Play),
		newCareCmd(&debug, "pet", "Pet your dog", "You petted your dog! 🥰", (*engine.Engine).Pet),
		newStatsCmd(&debug),
		newResetCmd(&debug),
	)
	return rootCmd
}

func newAdoptCmd(debug *bool) *cobra.Command {
	look := dog.DefaultAppearance()
	var name, color, size, tail, background string

	cmd := &cobra.Command{
		Use:   "adopt",
		Short: "Create a new dog, replacing any current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			trimmed, err := dog.ValidateName(name)
			if err != nil {
				return err
			}
			chosen, err := parseAppearance(color, size, tail, background)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), *debug)
			if err != nil {
				return err
			}
			defer a.Close()

			a.engine.Create(trimmed, chosen)
			flush(a.engine)
			fmt.Fprintf(cmd.OutOrStdout(), "Your digital dog %s has been created successfully!\n", trimmed)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "the dog's name")
	cmd.Flags().StringVar(&color, "color", string(look.BodyColor), "body color")
	cmd.Flags().StringVar(&size, "size", string(look.Size), "size: Small, Medium or Large")
	cmd.Flags().StringVar(&tail, "tail", string(look.Tail), "tail: None, Small or Long")
	cmd.Flags().StringVar(&background, "background", string(look.Background), "background scene")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func parseAppearance(color, size, tail, background string) (dog.Appearance, error) {
	var look dog.Appearance
	var err error
	if look.BodyColor, err = dog.ParseBodyColor(color); err != nil {
		return look, err
	}
	if look.Size, err = dog.ParseSize(size); err != nil {
		return look, err
	}
	if look.Tail, err = dog.ParseTail(tail); err != nil {
		return look, err
	}
	if look.Background, err = dog.ParseBackground(background); err != nil {
		return look, err
	}
	return look, nil
}

func newCareCmd(debug *bool, use, short, message string, action func(*engine.Engine)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *debug)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.engine.Current(); !ok {
				return errNoDog
			}
			action(a.engine)
			flush(a.engine)

			d, _ := a.engine.Current()
			fmt.Fprintln(cmd.OutOrStdout(), message)
			fmt.Fprintln(cmd.OutOrStdout(), dog.GetStatusMessage(d))
			return nil
		},
	}
}

func newStatsCmd(debug *bool) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your dog's profile card",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *debug)
			if err != nil {
				return err
			}
			defer a.Close()

			d, ok := a.engine.Current()
			if !ok {
				return errNoDog
			}
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), ui.StatsCard(d))
				return nil
			}
			return ui.DisplayStats(d)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the card instead of opening the viewer")
	return cmd
}

func newResetCmd(debug *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove your dog for good",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			a, err := openApp(cmd.Context(), *debug)
			if err != nil {
				return err
			}
			defer a.Close()

			a.engine.Reset()
			flush(a.engine)
			fmt.Fprintln(cmd.OutOrStdout(), "Your dog has been reset.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
