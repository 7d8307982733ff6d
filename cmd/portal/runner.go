package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/five82/portal/internal/app"
	"github.com/five82/portal/internal/logging"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Runner holds the dependencies for CLI commands and provides a method for
// each command action.
type Runner struct {
	open   func(context.Context, app.Options) (*app.Env, error)
	run    func(context.Context, app.Options) error
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	// Open builds the environment for one-shot commands.
	Open func(context.Context, app.Options) (*app.Env, error)
	// Run starts the interactive browser.
	Run    func(context.Context, app.Options) error
	Output io.Writer
}

// NewRunner creates a new Runner, defaulting to the real application and
// stdout.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Open == nil {
		opts.Open = app.Open
	}
	if opts.Run == nil {
		opts.Run = app.Run
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		open:   opts.Open,
		run:    opts.Run,
		output: opts.Output,
	}
}

// Command returns the root command. Without a subcommand it opens the TUI.
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:    "portal",
		Usage:   "Browse the Rick and Morty character catalog",
		Version: version,
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default ~/.config/portal/config.toml)",
			},
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "Path to preferences file (default ~/.config/portal/prefs.toml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Starting address, e.g. 'status=alive&page=2' or '/character/2'",
				Local:   true,
			},
		},
		Commands: r.register(),
		Action:   r.Browse,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listCommand, showCommand, favoritesCommand, encodeCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// options collects the global flags.
func (r *Runner) options(cmd *cli.Command) app.Options {
	return app.Options{
		ConfigPath: cmd.String("config"),
		PrefsPath:  cmd.String("prefs"),
		LogLevel:   cmd.String("log-level"),
	}
}

// openEnv opens the environment for a one-shot command. Logs go to stderr
// since no TUI owns the terminal.
func (r *Runner) openEnv(ctx context.Context, cmd *cli.Command) (*app.Env, error) {
	opts := r.options(cmd)
	opts.LogFile = logging.Stderr
	return r.open(ctx, opts)
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format: table, json or yaml",
		Value:   formatTable,
	}
}

func parseFormat(value string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(value)); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", value)
	}
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeYAML(data any) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}

// writeStructured writes data as JSON or YAML.
func (r *Runner) writeStructured(format string, data any) error {
	if format == formatYAML {
		return r.writeYAML(data)
	}
	return r.writeJSON(data)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
