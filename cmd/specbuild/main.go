package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/specbuild/internal/build"
	"git.home.luguber.info/inful/specbuild/internal/config"
	"git.home.luguber.info/inful/specbuild/internal/lint"
	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/version"
	"git.home.luguber.info/inful/specbuild/internal/watch"
)

var CLI struct {
	Config  string           `short:"c" help:"Path to the targets file" default:"targets.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Target   string `short:"t" help:"Build target name" default:"main"`
		Nodelete bool   `help:"Retain intermediate files in the scratch directory"`
	} `cmd:"" default:"withargs" help:"Assemble a target and render it to HTML"`

	Lint struct {
		Target string `short:"t" help:"Limit checks to a single target"`
	} `cmd:"" help:"Validate fragments without building"`

	Watch struct {
		Target   string `short:"t" help:"Build target name" default:"main"`
		Nodelete bool   `help:"Retain intermediate files in the scratch directory"`
	} `cmd:"" help:"Rebuild the target whenever the specification changes"`
}

const usage = `specbuild - generate the specification as HTML.

Usage:
  specbuild [build] [--target NAME] [--nodelete]
  specbuild lint [--target NAME]
  specbuild watch [--target NAME]

Generated documents can then be found in the output directory.
If --nodelete was specified, intermediate files will be present in the
scratch directory.
`

func main() {
	parser := kong.Must(&CLI,
		kong.Name("specbuild"),
		kong.Description("Assemble a multi-file specification into HTML documents."),
		kong.Vars{"version": version.Version})

	// Anything we cannot parse prints usage and exits cleanly without
	// building: the caller doesn't know what they're doing, not failing.
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Print(usage)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	switch kctx.Command() {
	case "build":
		if err := runBuild(cfg, CLI.Build.Target, CLI.Build.Nodelete); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "lint":
		if err := runLint(cfg, CLI.Lint.Target); err != nil {
			slog.Error("Lint failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(cfg, CLI.Watch.Target, CLI.Watch.Nodelete); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

func runBuild(cfg *config.Config, target string, nodelete bool) error {
	pipeline := build.NewPipeline(cfg)
	return pipeline.Build(context.Background(), target, build.Options{Retain: nodelete})
}

func runLint(cfg *config.Config, target string) error {
	linter := lint.NewLinter(cfg)

	var issues []lint.Issue
	var err error
	if target != "" {
		issues, err = linter.LintTarget(target)
	} else {
		issues, err = linter.LintAll()
	}
	if err != nil {
		return err
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("found %d issue(s)", len(issues))
	}
	slog.Info("All fragments are clean")
	return nil
}

func runWatch(cfg *config.Config, target string, nodelete bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline := build.NewPipeline(cfg)
	rebuild := func() {
		if err := pipeline.Build(ctx, target, build.Options{Retain: nodelete}); err != nil {
			// Keep watching; the author fixes the fragment and saves again.
			slog.Error("Rebuild failed", logfields.Target(target), logfields.Error(err))
		}
	}

	rebuild()

	watcher, err := watch.New(rebuild, cfg.SpecDir)
	if err != nil {
		return err
	}

	slog.Info("Watching for changes", logfields.Path(cfg.SpecDir), logfields.Target(target))
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("Shutdown signal received")
	return nil
}
