// Package lint validates spec fragments without building: the trailing
// newline invariant and the title nesting rules are checked for every
// fragment a target references, and all findings are reported together
// instead of stopping at the first.
package lint

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/specbuild/internal/assemble"
	"git.home.luguber.info/inful/specbuild/internal/config"
	"git.home.luguber.info/inful/specbuild/internal/titles"
)

// Issue is one finding against one fragment.
type Issue struct {
	Target   string
	Fragment string
	Message  string
}

func (i Issue) String() string {
	return i.Target + ": " + i.Fragment + ": " + i.Message
}

// Linter checks all fragments referenced by build targets.
type Linter struct {
	cfg    *config.Config
	loader assemble.Loader
}

// NewLinter creates a linter reading fragments from the configured spec dir.
func NewLinter(cfg *config.Config) *Linter {
	return &Linter{cfg: cfg, loader: assemble.DirLoader{Dir: cfg.SpecDir}}
}

// WithLoader injects a fragment loader, for tests.
func (l *Linter) WithLoader(loader assemble.Loader) *Linter {
	l.loader = loader
	return l
}

// LintAll checks every target in the configuration, in name order.
func (l *Linter) LintAll() ([]Issue, error) {
	names := make([]string, 0, len(l.cfg.Targets))
	for name := range l.cfg.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		targetIssues, err := l.LintTarget(name)
		if err != nil {
			return nil, err
		}
		issues = append(issues, targetIssues...)
	}
	return issues, nil
}

// LintTarget checks every fragment the named target references. Configuration
// errors (unknown target, missing group) are returned as errors; fragment
// findings are collected as issues.
func (l *Linter) LintTarget(name string) ([]Issue, error) {
	target, err := l.cfg.ResolveTarget(name)
	if err != nil {
		return nil, err
	}

	styles := l.cfg.StyleTable()
	var issues []Issue
	for _, node := range target.Files {
		issues = append(issues, l.lintNode(name, node, 0, styles)...)
	}
	return issues, nil
}

func (l *Linter) lintNode(target string, node config.FileNode, level int, styles titles.StyleTable) []Issue {
	switch node.Kind() {
	case config.NodeFragment:
		if issue := l.lintFragment(target, node.Fragment(), level, styles); issue != nil {
			return []Issue{*issue}
		}
		return nil

	case config.NodeSeq:
		var issues []Issue
		for _, child := range node.Seq() {
			issues = append(issues, l.lintNode(target, child, level, styles)...)
		}
		return issues

	case config.NodeNested:
		var issues []Issue
		for _, lvl := range node.Levels() {
			issues = append(issues, l.lintNode(target, node.Nested()[lvl], lvl, styles)...)
		}
		return issues
	}
	return nil
}

func (l *Linter) lintFragment(target, name string, level int, styles titles.StyleTable) *Issue {
	content, err := l.loader.Load(name)
	if err != nil {
		return &Issue{Target: target, Fragment: name, Message: "cannot read fragment: " + err.Error()}
	}
	if !strings.HasSuffix(content, "\n\n") {
		return &Issue{Target: target, Fragment: name, Message: "must end with two newline characters"}
	}
	if _, err := titles.Normalize(name, content, level, styles); err != nil {
		return &Issue{Target: target, Fragment: name, Message: err.Error()}
	}
	return nil
}
