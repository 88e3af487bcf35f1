// Package main is the entry point for the tm CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jacksmith/tm/internal/cli"
	"github.com/jacksmith/tm/internal/driver"
	"github.com/jacksmith/tm/internal/logging"
	"github.com/jacksmith/tm/internal/storage"
	"github.com/jacksmith/tm/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

type rootOptions struct {
	file     string
	config   string
	commands []string
	load     bool
	noTiming bool
	noColor  bool
	plain    bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tm",
		Short: "tm - a small interactive task manager",
		Long: `tm keeps a list of tasks in memory and lets you add, remove, toggle,
edit and list them from a menu. Tasks are written to and read from a
YAML file only when you save or load.

Every action reports how long it took.

Settings are read from .tmconfig.yaml in the current directory (or the
file given with --config; a .toml extension selects TOML). Flags win
over the config file.

Examples:
  tm
  tm --file ~/todo.yaml --load
  tm -c "load" -c "add Buy milk" -c "save"`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "task file used by save and load without a path (default \"tasks.yaml\")")
	cmd.Flags().StringVar(&opts.config, "config", storage.DefaultConfigFile, "config file (.yaml or .toml)")
	cmd.Flags().StringArrayVarP(&opts.commands, "command", "c", nil, "run an action line and exit (can be repeated)")
	cmd.Flags().BoolVar(&opts.load, "load", false, "load the task file at startup if it exists")
	cmd.Flags().BoolVar(&opts.noTiming, "no-timing", false, "do not print how long actions take")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "read input line by line without terminal editing")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("tm version {{.Version}}\n")

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*storage.Config, error) {
	cfg, err := storage.LoadConfig(opts.config)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("file") && opts.file != "" {
		cfg.DefaultFile = opts.file
	}
	if opts.load {
		cfg.Autoload = true
	}
	if opts.noTiming {
		cfg.ShowTiming = false
	}
	if opts.noColor {
		off := false
		cfg.Color = &off
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.Color != nil {
		cli.SetColorEnabled(*cfg.Color)
	}

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	logOut := cmd.ErrOrStderr()

	var reader driver.LineReader
	if f, ok := in.(*os.File); ok && !opts.plain && len(opts.commands) == 0 && cli.IsTerminal(f) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set up terminal: %w", err)
		}
		defer term.Restore(fd, oldState)

		tr := driver.NewTerminalReader(struct {
			io.Reader
			io.Writer
		}{f, out})
		reader = tr
		// Raw mode needs \r\n line endings, which the terminal adds
		out = tr.Writer()
		logOut = out
	} else {
		reader = driver.NewBufferedReader(in, out)
	}

	logger := logging.New(logOut, cfg.LogLevel)
	logger.Debug("starting", "file", cfg.DefaultFile, "config", opts.config)

	d := driver.New(store.New(), reader, out, driver.Options{
		DefaultPath: cfg.DefaultFile,
		ShowTiming:  cfg.ShowTiming,
		Logger:      logger,
	})

	if cfg.Autoload {
		if storage.Exists(cfg.DefaultFile) {
			// A failed load is reported and the session starts empty
			_ = d.Exec("load")
		} else {
			logger.Info("nothing to load", "file", cfg.DefaultFile)
		}
	}

	if len(opts.commands) > 0 {
		return d.RunScript(opts.commands)
	}
	return d.Run()
}
