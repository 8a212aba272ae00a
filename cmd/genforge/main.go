package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"genforge/internal/app"
	"genforge/internal/cli"
	"genforge/internal/config"
	"genforge/internal/llm"
	"genforge/internal/logging"
	"genforge/internal/session"
	"genforge/internal/tui"
	"genforge/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	root := cfg.ProjectDir
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not determine working directory: %v\n", err)
			os.Exit(1)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid project directory: %v\n", err)
		os.Exit(1)
	}

	conf, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Merge(conf)

	logger, err := logging.New(filepath.Join(root, config.Dir), conf.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	var client llm.Client
	if conf.APIKey != "" {
		client, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:          conf.APIKey,
			Model:           conf.Model,
			Temperature:     conf.Temperature,
			MaxOutputTokens: conf.MaxOutputTokens,
			SafetyThreshold: conf.SafetyThreshold,
			Stream:          conf.Stream,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize Gemini client: %v\n", err)
			os.Exit(1)
		}
	}

	a, err := app.New(conf, client, session.New(root), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// One-shot modes print a summary and skip the interactive loop.
	if line := oneShotLine(cfg); line != "" {
		summary, err := a.Dispatch(ctx, line)
		if err != nil {
			if e, ok := err.(*app.DetailedError); ok {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
			}
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		ui.PrintSummary(summary)
		return
	}

	p := tea.NewProgram(tui.New(a))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// oneShotLine maps exclusive flags onto a single command line.
func oneShotLine(cfg *cli.Config) string {
	switch {
	case cfg.Command != "":
		return cfg.Command
	case cfg.Apply:
		return "apply"
	case cfg.Undo:
		return "undo"
	case cfg.Redo:
		return "redo"
	}
	return ""
}
