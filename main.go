// Package main is the entry point for the spyglass reader.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/billie-coop/spyglass/internal/config"
	"github.com/billie-coop/spyglass/internal/logging"
	"github.com/billie-coop/spyglass/internal/session"
	"github.com/billie-coop/spyglass/internal/tui"
	"github.com/billie-coop/spyglass/internal/watcher"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type flags struct {
	throttle time.Duration
	once     bool
	checkNow bool
	theme    string
	watch    bool
	debug    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "spyglass [file.md]",
		Short: "Scroll through a markdown file and watch its sections come into view",
		Long: `Spyglass splits a markdown file into sections on its "## " headings and
tracks which of them scroll into view.

Without a file it opens a built-in tour. Settings are read from
.spyglass/config.json in the current directory; flags override them.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfgManager := config.NewManager(cwd)
			if err := cfgManager.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := applyFlags(cmd, cfgManager.Get(), f)

			doc := tui.DefaultDocument()
			if len(args) == 1 {
				if doc, err = tui.LoadDocument(args[0]); err != nil {
					return err
				}
			}

			log := zerolog.Nop()
			if cfg.Debug {
				var closeLog func() error
				log, closeLog, err = logging.NewFile(filepath.Join(cfgManager.Dir(), cfg.LogFile), cfg.LogLevel)
				if err != nil {
					return err
				}
				defer closeLog()
			}
			log.Info().Str("config", cfgManager.Path()).Msg("spyglass starting")

			progress, err := openProgress(cwd, args, doc)
			if err != nil {
				log.Warn().Err(err).Msg("reading progress will not be saved")
			}

			m := tui.New(doc, tui.Options{
				Throttle: cfg.ThrottleInterval(),
				Once:     cfg.Once,
				CheckNow: cfg.CheckNow,
				Style:    cfg.Theme,
				Logger:   &log,
				Progress: progress,
			})
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

			if cfg.Watch && len(args) == 1 {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				stop := watchDocument(ctx, args[0], p, log)
				defer stop()
			}

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("program failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&f.throttle, "throttle", 0, "minimum time between two scroll samples (default from config, 100ms)")
	cmd.Flags().BoolVar(&f.once, "once", false, "stop watching a section the first time it is seen")
	cmd.Flags().BoolVar(&f.checkNow, "check-now", true, "report sections already in view when they are registered")
	cmd.Flags().StringVar(&f.theme, "theme", "", "glamour style name or path (default from config, dark)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "reload the file when it changes on disk")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "write a debug log to .spyglass/")

	return cmd
}

// openProgress returns the stored reading progress of the document. The
// built-in tour is tracked under a fixed name.
func openProgress(cwd string, args []string, doc *tui.Document) (tui.Progress, error) {
	sessions := session.NewManager(cwd)
	if err := sessions.Initialize(); err != nil {
		return nil, err
	}

	key := "tour"
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		key = abs
	}

	s, err := sessions.Open(key, doc.Title)
	if err != nil {
		return nil, err
	}
	return sessions.Tracker(s.ID), nil
}

// watchDocument sends a tui.DocumentChangedMsg to p every time path settles
// after a change. Unreadable versions are logged and skipped.
func watchDocument(ctx context.Context, path string, p *tea.Program, log zerolog.Logger) func() {
	fw := watcher.NewWatcher(watcher.DefaultDebounce, func([]string) {
		doc, err := tui.LoadDocument(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("reload skipped")
			return
		}
		p.Send(tui.DocumentChangedMsg{Doc: doc})
	})

	go func() {
		if err := watcher.WatchFile(ctx, path, fw, log); err != nil {
			log.Error().Err(err).Msg("file watch stopped")
		}
	}()
	return fw.Stop
}

// applyFlags returns a copy of cfg with every flag the user set applied.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) config.Config {
	out := *cfg
	changed := cmd.Flags().Changed

	if changed("throttle") && f.throttle > 0 {
		out.ThrottleIntervalMs = int(f.throttle / time.Millisecond)
	}
	if changed("once") {
		out.Once = f.once
	}
	if changed("check-now") {
		out.CheckNow = f.checkNow
	}
	if changed("theme") && f.theme != "" {
		out.Theme = f.theme
	}
	if changed("watch") {
		out.Watch = f.watch
	}
	if changed("debug") {
		out.Debug = f.debug
	}
	return out
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
