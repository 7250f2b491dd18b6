package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/dnd"
	"taskboard/internal/format"
	"taskboard/internal/store"
	"taskboard/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Backend    string
	DataDir    string
	Key        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Two-column task board (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskboard

  # Scriptable commands
  taskboard list
  taskboard add "Water the plants"
  taskboard move 1 --to done

  # Replay a drag-end event (drop task 1 on the Done column)
  taskboard drop 1 --over completed-container

  # Serve the board in a browser
  taskboard web
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLogLevel(app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TASKBOARD_BACKEND", ""), "Storage backend ("+strings.Join(store.Backends(), "|")+"; default from config, else sqlite)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("TASKBOARD_DIR", ""), "Data directory for the sqlite/file backends (default ~/.taskboard/data)")
	cmd.PersistentFlags().StringVar(&app.Key, "key", envOr("TASKBOARD_KEY", ""), "Blob key the board is stored under (default todoData)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKBOARD_FORMAT", "json"), "Output format ("+strings.Join(format.Formats(), "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKBOARD_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	settings, err := resolveSettings(app)
	if err != nil {
		return writeErr(cmd, err)
	}

	// The alt screen owns the terminal, so the TUI logs to a file.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if dir, err := store.ConfigDir(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, "taskboard.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				defer f.Close()
				lvl, _ := parseLogLevel(app.LogLevel)
				logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
			}
		}
	}

	b, closeFn, err := openBoardWith(cmd.Context(), settings, logger)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeFn()
	return tui.Run(b, tui.Options{Glyphs: settings.Glyphs, Logger: logger})
}

// resolveSettings merges the config file with global flags (flags win).
func resolveSettings(app *App) (store.Settings, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return store.Settings{}, err
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(app.DataDir); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(app.Key); v != "" {
		cfg.Key = v
	}
	return cfg.Settings()
}

func openBoard(cmd *cobra.Command, app *App) (*board.Board, func(), error) {
	settings, err := resolveSettings(app)
	if err != nil {
		return nil, nil, err
	}
	return openBoardWith(cmd.Context(), settings, app.logger())
}

func openBoardWith(ctx context.Context, settings store.Settings, logger *slog.Logger) (*board.Board, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	blobs, err := store.Open(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	b := board.New(ctx, blobs,
		board.WithKey(settings.Key),
		board.WithLogger(logger),
		board.WithResolveOptions(dnd.Options{LegacyDisplacement: settings.LegacyDisplacement}),
	)
	return b, func() {
		if err := blobs.Close(); err != nil {
			logger.Warn("store: close failed", "err", err)
		}
	}, nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.Default()
	}
	return app.log
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", s)
	}
	return lvl, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v in the selected format. In text mode the "data" payload of an
// envelope is rendered on its own.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		if m, ok := v.(map[string]any); ok {
			if d, ok := m["data"]; ok {
				v = d
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
