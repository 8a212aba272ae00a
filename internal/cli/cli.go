package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"genforge/internal/config"
)

// Config holds all the command-line flag values.
type Config struct {
	ProjectDir  string
	Command     string
	Apply       bool
	Undo        bool
	Redo        bool
	Model       string
	MaxAttempts int
	Backoff     string
	RetryDelay  time.Duration
	Trim        bool
	Stream      bool
	Debug       bool
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.StringVarP(&cfg.ProjectDir, "project", "p", "", "Project root directory (default: current directory).")
	pflag.StringVarP(&cfg.Command, "command", "c", "", "Run a single command instead of the interactive loop (e.g. 'project:create a todo app').")
	pflag.BoolVarP(&cfg.Apply, "apply", "a", false, "Apply a response read from stdin (pipe) or the clipboard, without calling the API.")
	pflag.StringVarP(&cfg.Model, "model", "m", "", "Gemini model to use.")
	pflag.IntVar(&cfg.MaxAttempts, "max-attempts", 0, "Maximum remote call attempts before giving up.")
	pflag.StringVar(&cfg.Backoff, "backoff", "", "Delay strategy between attempts: 'exponential' or 'fixed'.")
	pflag.DurationVar(&cfg.RetryDelay, "retry-delay", 0, "Base delay between attempts (e.g. 5s).")
	pflag.BoolVar(&cfg.Trim, "trim", false, "Trim surrounding whitespace from materialized file content.")
	pflag.BoolVar(&cfg.Stream, "stream", false, "Stream the response instead of waiting for the full blob.")
	pflag.BoolVar(&cfg.Debug, "debug", false, "Write a debug log under .genforge/logs/.")

	// Mutually exclusive history group
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last operation.")
	pflag.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone operation.")

	pflag.Usage = func() {
		fmt.Println("Usage: genforge [flags]")
		fmt.Println("\nDrive Gemini to scaffold and upgrade project files.")
		fmt.Println("\nExample: genforge -c 'project:create a CLI todo app in Go'")
		fmt.Println("Example: pbpaste | genforge --apply")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if cfg.Undo && cfg.Redo {
		return nil, fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}

	return cfg, nil
}

// Merge applies flag values onto the loaded configuration. Only flags the
// user actually set win over the file and environment.
func (c *Config) Merge(conf *config.Config) {
	set := pflag.CommandLine.Changed
	if set("model") {
		conf.Model = c.Model
	}
	if set("max-attempts") {
		conf.MaxAttempts = c.MaxAttempts
	}
	if set("backoff") {
		conf.Backoff = c.Backoff
	}
	if set("retry-delay") {
		conf.RetryDelay = config.Duration(c.RetryDelay)
	}
	if set("trim") {
		conf.TrimContent = c.Trim
	}
	if set("stream") {
		conf.Stream = c.Stream
	}
	if set("debug") {
		conf.Debug = c.Debug
	}
}
