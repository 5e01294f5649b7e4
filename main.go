package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sadopc/habitmap/internal/cli"
	"github.com/sadopc/habitmap/internal/logger"
	"github.com/sadopc/habitmap/internal/store"
)

var CLI struct {
	Version   kong.VersionFlag
	DB        string        `help:"SQLite database path or PostgreSQL URL. PostgreSQL URLs must not embed a password; use PGPASSWORD, .pgpass or 'habitmap keyring set'." env:"HABITMAP_DB" placeholder:"PATH|URL"`
	Debug     bool          `help:"Enable debug logging to stderr." env:"HABITMAP_DEBUG"`
	LogDir    string        `help:"Log directory." env:"HABITMAP_LOG_DIR" type:"path"`
	Colors    string        `help:"Color policy for new habits." enum:"random,hash,cycle" default:"random" env:"HABITMAP_COLORS"`
	Timeout   time.Duration `help:"Timeout for each data-service call." default:"10s" env:"HABITMAP_TIMEOUT"`
	ExportDir string        `help:"Directory for TUI exports and default export paths." env:"HABITMAP_EXPORT_DIR" type:"path" default:"."`

	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive heatmap TUI." default:"1"`
	Add     cli.AddCmd     `cmd:"" help:"Add a habit."`
	List    cli.ListCmd    `cmd:"" help:"List habits with their completion share."`
	Rename  cli.RenameCmd  `cmd:"" help:"Rename a habit."`
	Delete  cli.DeleteCmd  `cmd:"" help:"Delete a habit and all its completions."`
	Toggle  cli.ToggleCmd  `cmd:"" help:"Toggle completion of a day."`
	Show    cli.ShowCmd    `cmd:"" help:"Print a habit's yearly heatmap."`
	Export  cli.ExportCmd  `cmd:"" help:"Export habits to CSV or JSON."`
	Theme   cli.ThemeCmd   `cmd:"" help:"Show or change the color theme."`
	Keyring cli.KeyringCmd `cmd:"" help:"Manage the PostgreSQL password in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitmap"),
		kong.Description("Habit tracker with a yearly completion heatmap"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Dir: logDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	// Keyring commands manage the credentials Open may need, so they run
	// without a store.
	if strings.HasPrefix(ctx.Command(), "keyring") {
		fail(ctx.Run(&cli.Context{Out: os.Stdout}))
		return
	}

	appCtx, err := cli.Open(cli.Options{
		DB:        CLI.DB,
		Colors:    CLI.Colors,
		Timeout:   CLI.Timeout,
		ExportDir: CLI.ExportDir,
	})
	fail(err)

	// The TUI opens on an empty list after a failed load; one-shot commands
	// would report or overwrite data they never saw.
	if appCtx.LoadErr != nil && ctx.Command() != "tui" {
		appCtx.Close()
		fail(appCtx.LoadErr)
	}

	err = ctx.Run(appCtx)
	appCtx.Close()
	fail(err)
}

func logDir() string {
	if CLI.LogDir != "" {
		return CLI.LogDir
	}
	if path, err := store.DefaultDBPath(); err == nil {
		return filepath.Join(filepath.Dir(path), "logs")
	}
	return filepath.Join(os.TempDir(), "habitmap", "logs")
}

func fail(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, cli.Format(err))
	os.Exit(1)
}
