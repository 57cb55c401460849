package build

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/specerr"
)

// Templater abstracts the external templating pass that substitutes
// placeholders in the concatenated document. The pipeline only needs an
// in-place transform of one file; tests inject a fake instead of spawning a
// real process.
type Templater interface {
	Run(ctx context.Context, inputPath string) error
}

// CommandTemplater invokes a configured argv with the input path appended as
// the final argument. The command is expected to rewrite the file in place.
type CommandTemplater struct {
	Argv []string
	// Dir, when non-empty, is the working directory for the command.
	Dir string
}

func (t *CommandTemplater) Run(ctx context.Context, inputPath string) error {
	args := append(append([]string{}, t.Argv[1:]...), inputPath)
	cmd := exec.CommandContext(ctx, t.Argv[0], args...)
	cmd.Dir = t.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running templating pass",
		slog.String("command", t.Argv[0]), logfields.Path(inputPath))

	if err := cmd.Run(); err != nil {
		// Surface captured output so the user sees the templater's own
		// diagnostics, not just the exit status.
		diag := combinedOutput(stdout, stderr)
		if diag != "" {
			slog.Error("Templating pass failed", slog.String("output", diag))
		}
		return specerr.ExternalStepFailed("templating", diag, err)
	}
	if out := stdout.String(); out != "" {
		slog.Debug("Templating output", slog.String("output", out))
	}
	return nil
}

// NoopTemplater skips templating; used when no template_command is configured
// and in tests.
type NoopTemplater struct{}

func (NoopTemplater) Run(_ context.Context, inputPath string) error {
	slog.Debug("No templating pass configured", logfields.Path(inputPath))
	return nil
}

func combinedOutput(stdout, stderr bytes.Buffer) string {
	out := stderr.String()
	if out == "" {
		return stdout.String()
	}
	if s := stdout.String(); s != "" {
		return s + "\n" + out
	}
	return out
}
