// Package assemble resolves a target's files tree into one concatenated,
// title-normalized document.
package assemble

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/specbuild/internal/config"
	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/specerr"
	"git.home.luguber.info/inful/specbuild/internal/titles"
)

// Loader fetches fragment content by name. Injected so the resolver is
// testable without a spec checkout on disk.
type Loader interface {
	Load(name string) (string, error)
}

// DirLoader loads fragments relative to a base directory.
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Resolver walks a files tree depth-first, loading and normalizing each
// fragment at the level its position in the tree dictates.
type Resolver struct {
	loader Loader
	styles titles.StyleTable
}

// NewResolver creates a resolver using the given fragment loader and title
// style table.
func NewResolver(loader Loader, styles titles.StyleTable) *Resolver {
	return &Resolver{loader: loader, styles: styles}
}

// Resolve returns the concatenated, normalized text for one node.
//
// Fragments are normalized at targetLevel. Lists resolve every child at the
// same level, in order. Level-keyed maps resolve each child at its own key,
// in ascending key order.
func (r *Resolver) Resolve(node config.FileNode, targetLevel int) (string, error) {
	switch node.Kind() {
	case config.NodeFragment:
		return r.resolveFragment(node.Fragment(), targetLevel)

	case config.NodeSeq:
		var b strings.Builder
		for _, child := range node.Seq() {
			text, err := r.Resolve(child, targetLevel)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
		return b.String(), nil

	case config.NodeNested:
		var b strings.Builder
		for _, level := range node.Levels() {
			text, err := r.Resolve(node.Nested()[level], level)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
		return b.String(), nil
	}

	// Unreachable after YAML decoding, but the tree can also be built in code.
	return "", specerr.MalformedFilesEntry(fmt.Sprintf("node kind %d", node.Kind()))
}

func (r *Resolver) resolveFragment(name string, targetLevel int) (string, error) {
	slog.Debug("Resolving fragment", logfields.Fragment(name), logfields.Level(targetLevel))

	content, err := r.loader.Load(name)
	if err != nil {
		return "", specerr.FragmentReadFailed(name, err)
	}

	// Without this, concatenation fuses the last line of one fragment with
	// the first line of the next.
	if !strings.HasSuffix(content, "\n\n") {
		return "", specerr.MissingTrailingNewlines(name)
	}

	return titles.Normalize(name, content, targetLevel, r.styles)
}
