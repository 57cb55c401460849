// Package build orchestrates the sequential spec build pipeline: resolve and
// normalize the files tree, run the external templating pass, fix relative
// title markers, render to HTML, and clean up scratch artifacts.
package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/specbuild/internal/assemble"
	"git.home.luguber.info/inful/specbuild/internal/config"
	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/titles"
	"git.home.luguber.info/inful/specbuild/internal/workspace"
)

// Scratch file names, kept stable so --nodelete output is predictable.
const (
	concatenatedName = "templated_spec.rst"
	fixedName        = "full_spec.rst"
)

// Options tune a single build invocation.
type Options struct {
	// Retain keeps intermediate files in the scratch directory.
	Retain bool
}

// Pipeline runs builds for one loaded configuration.
type Pipeline struct {
	cfg       *config.Config
	templater Templater
	renderer  Renderer // overrides format-based selection when set
}

// NewPipeline creates a build pipeline. The templating collaborator is chosen
// from the configuration: a CommandTemplater when template_command is set,
// otherwise a no-op.
func NewPipeline(cfg *config.Config) *Pipeline {
	p := &Pipeline{cfg: cfg}
	if len(cfg.TemplateCommand) > 0 {
		p.templater = &CommandTemplater{Argv: cfg.TemplateCommand}
	} else {
		p.templater = NoopTemplater{}
	}
	return p
}

// WithTemplater injects a custom templating collaborator.
func (p *Pipeline) WithTemplater(t Templater) *Pipeline {
	if t != nil {
		p.templater = t
	}
	return p
}

// WithRenderer injects a custom renderer, bypassing format-based selection.
func (p *Pipeline) WithRenderer(r Renderer) *Pipeline {
	if r != nil {
		p.renderer = r
	}
	return p
}

// Build assembles one target into HTML. Every stage is blocking; the first
// failing stage aborts the build and scratch files are kept for inspection.
func (p *Pipeline) Build(ctx context.Context, targetName string, opts Options) error {
	buildID := uuid.NewString()
	start := time.Now()
	slog.Info("Building spec",
		logfields.BuildID(buildID), logfields.Target(targetName))

	target, err := p.cfg.ResolveTarget(targetName)
	if err != nil {
		return err
	}

	ws := workspace.NewManager(p.cfg.OutputDir, p.cfg.ScratchDir, opts.Retain)
	if err := ws.Create(); err != nil {
		return err
	}

	styles := p.cfg.StyleTable()
	stages := []struct {
		name string
		run  func() error
	}{
		{"concatenate", func() error { return p.concatenate(target, styles, ws) }},
		{"template", func() error { return p.templater.Run(ctx, ws.ScratchPath(concatenatedName)) }},
		{"fix-relative-titles", func() error { return p.fixRelativeTitles(styles, ws) }},
		{"render", func() error {
			return p.rendererFor(target).Render(ctx, ws.ScratchPath(fixedName), ws.OutputPath(target.Output))
		}},
		{"howto", func() error { return p.buildHowto(ctx, target, ws) }},
	}

	for _, stage := range stages {
		slog.Debug("Starting stage", logfields.Stage(stage.name))
		if err := stage.run(); err != nil {
			slog.Error("Stage failed",
				logfields.Stage(stage.name), logfields.BuildID(buildID), logfields.Error(err))
			return err
		}
	}

	// Scratch is only removed after a fully successful build so failures
	// leave their intermediates behind.
	if err := ws.Cleanup(); err != nil {
		return err
	}

	slog.Info("Spec build complete",
		logfields.BuildID(buildID),
		logfields.Target(targetName),
		logfields.Path(ws.OutputPath(target.Output)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// concatenate resolves every top-level files entry at level 0 and writes the
// combined document to scratch.
func (p *Pipeline) concatenate(target config.Target, styles titles.StyleTable, ws *workspace.Manager) error {
	resolver := assemble.NewResolver(assemble.DirLoader{Dir: p.cfg.SpecDir}, styles)

	out, err := os.Create(ws.ScratchPath(concatenatedName))
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer out.Close()

	for _, node := range target.Files {
		section, err := resolver.Resolve(node, 0)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, section); err != nil {
			return fmt.Errorf("failed to write scratch file: %w", err)
		}
	}
	return out.Close()
}

func (p *Pipeline) fixRelativeTitles(styles titles.StyleTable, ws *workspace.Manager) error {
	templated, err := os.ReadFile(ws.ScratchPath(concatenatedName))
	if err != nil {
		return fmt.Errorf("failed to read templated document: %w", err)
	}
	fixed, err := titles.FixRelativeTitles(string(templated), styles, p.cfg.RelativeTitleStyles)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ws.ScratchPath(fixedName), []byte(fixed), 0o644); err != nil {
		return fmt.Errorf("failed to write fixed document: %w", err)
	}
	return nil
}

// buildHowto templates and renders the optional side document. It skips the
// relative-title pass: the howto is a standalone file that never contains
// templater-emitted section breaks at unknown depths.
func (p *Pipeline) buildHowto(ctx context.Context, target config.Target, ws *workspace.Manager) error {
	if p.cfg.Howto == nil {
		return nil
	}

	scratch := ws.ScratchPath(filepath.Base(p.cfg.Howto.Source))
	if err := copyFile(p.cfg.Howto.Source, scratch); err != nil {
		return fmt.Errorf("failed to copy howto source: %w", err)
	}
	if err := p.templater.Run(ctx, scratch); err != nil {
		return err
	}
	return p.rendererFor(target).Render(ctx, scratch, ws.OutputPath(p.cfg.Howto.Output))
}

func (p *Pipeline) rendererFor(target config.Target) Renderer {
	if p.renderer != nil {
		return p.renderer
	}
	if target.FormatType() == config.FormatMarkdown {
		return &GoldmarkRenderer{Stylesheets: p.cfg.Stylesheets}
	}
	return &CommandRenderer{Argv: p.cfg.RenderCommand, Stylesheets: p.cfg.Stylesheets}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
