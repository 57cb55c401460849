package build

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/specerr"
)

// Renderer abstracts the final markup-to-HTML conversion so the pipeline does
// not care whether rendering happens in an external process or in-process.
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string) error
}

// CommandRenderer shells out to an external renderer (rst2html by default)
// with input and output paths appended as the final two arguments.
type CommandRenderer struct {
	Argv        []string
	Stylesheets []string
}

func (r *CommandRenderer) Render(ctx context.Context, inputPath, outputPath string) error {
	args := append([]string{}, r.Argv[1:]...)
	if len(r.Stylesheets) > 0 {
		args = append(args, "--stylesheet-path="+strings.Join(r.Stylesheets, ","))
	}
	args = append(args, inputPath, outputPath)

	cmd := exec.CommandContext(ctx, r.Argv[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Rendering document",
		slog.String("command", r.Argv[0]),
		logfields.Path(inputPath))

	if err := cmd.Run(); err != nil {
		diag := combinedOutput(stdout, stderr)
		if diag != "" {
			slog.Error("Renderer failed", slog.String("output", diag))
		}
		return specerr.ExternalStepFailed("rendering", diag, err)
	}
	if errOut := stderr.String(); errOut != "" {
		// rst2html reports markup warnings on stderr even on success.
		slog.Warn("Renderer diagnostics", slog.String("output", errOut))
	}
	return nil
}

// GoldmarkRenderer converts markdown-format targets in-process.
type GoldmarkRenderer struct {
	Stylesheets []string
}

func (r *GoldmarkRenderer) Render(_ context.Context, inputPath, outputPath string) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read render input: %w", err)
	}

	var body bytes.Buffer
	if err := goldmark.New().Convert(source, &body); err != nil {
		return specerr.ExternalStepFailed("rendering", "", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	for _, css := range r.Stylesheets {
		fmt.Fprintf(&page, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(css))
	}
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(outputPath, page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write render output: %w", err)
	}
	return nil
}
