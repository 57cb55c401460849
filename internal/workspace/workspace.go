// Package workspace manages the two directories a build touches: the output
// directory that receives the generated HTML, and the scratch directory that
// holds intermediate text artifacts. Scratch contents are removed after a
// successful build unless the caller asked to retain them.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/specbuild/internal/logfields"
)

// Manager handles output and scratch directory lifecycle for one build.
type Manager struct {
	outputDir  string
	scratchDir string
	retain     bool
}

// NewManager creates a workspace manager. When retain is true the scratch
// directory survives Cleanup.
func NewManager(outputDir, scratchDir string, retain bool) *Manager {
	return &Manager{
		outputDir:  outputDir,
		scratchDir: scratchDir,
		retain:     retain,
	}
}

// Create ensures both directories exist.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(m.scratchDir, 0o750); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	slog.Debug("Workspace ready",
		slog.String("output", m.outputDir),
		slog.String("scratch", m.scratchDir))
	return nil
}

// OutputPath returns the path of a file inside the output directory.
func (m *Manager) OutputPath(name string) string {
	return filepath.Join(m.outputDir, name)
}

// ScratchPath returns the path of a file inside the scratch directory.
func (m *Manager) ScratchPath(name string) string {
	return filepath.Join(m.scratchDir, name)
}

// Cleanup removes the scratch directory unless retention was requested.
func (m *Manager) Cleanup() error {
	if m.retain {
		slog.Info("Retaining intermediate files", logfields.Path(m.scratchDir))
		return nil
	}
	if err := os.RemoveAll(m.scratchDir); err != nil {
		return fmt.Errorf("failed to cleanup scratch directory: %w", err)
	}
	slog.Debug("Cleaned up scratch directory", logfields.Path(m.scratchDir))
	return nil
}
