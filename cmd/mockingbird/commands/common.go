// Package commands implements the mockingbird command line.
package commands

import (
	"io"
	"log/slog"
	"os"
)

// Global holds state shared by every subcommand.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`
	Quiet   bool `short:"q" help:"Only log warnings and errors, and skip the site tree"`

	Build   BuildCmd   `cmd:"" help:"Build a site into an output directory"`
	Watch   WatchCmd   `cmd:"" help:"Build a site and rebuild it whenever the input changes"`
	Tree    TreeCmd    `cmd:"" help:"Print the discovered site tree without rendering"`
	Version VersionCmd `cmd:"" help:"Print the version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level()})))
	return nil
}

func (c *CLI) level() slog.Level {
	switch {
	case c.Verbose:
		return slog.LevelDebug
	case c.Quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
