// Package titles implements title-level normalization for underline-heading
// markup. Fragments are written against a local heading convention; this
// package rewrites underline markers so concatenated fragments form one
// coherent hierarchy rooted at a caller-chosen level.
package titles

import (
	"fmt"
	"strings"
)

// minUnderlineLen is the shortest run of marker characters that counts as a
// title underline.
const minUnderlineLen = 3

// StyleTable is an ordered list of underline marker characters. Index 0 is the
// top-level heading style; higher indexes nest deeper.
type StyleTable struct {
	styles []string
}

// NewStyleTable validates and wraps an ordered marker list. Every entry must
// be a single distinct character.
func NewStyleTable(styles []string) (StyleTable, error) {
	if len(styles) == 0 {
		return StyleTable{}, fmt.Errorf("title_styles must not be empty")
	}
	seen := make(map[string]bool, len(styles))
	for i, s := range styles {
		if len(s) != 1 {
			return StyleTable{}, fmt.Errorf("title_styles[%d] %q is not a single character", i, s)
		}
		if seen[s] {
			return StyleTable{}, fmt.Errorf("title_styles contains duplicate marker %q", s)
		}
		seen[s] = true
	}
	return StyleTable{styles: styles}, nil
}

// Depth returns the number of levels in the table.
func (t StyleTable) Depth() int { return len(t.styles) }

// At returns the marker character for the given level.
func (t StyleTable) At(level int) string { return t.styles[level] }

// IndexOf returns the level of the given marker character, or -1 if the
// character is not in the table.
func (t StyleTable) IndexOf(marker string) int {
	for i, s := range t.styles {
		if s == marker {
			return i
		}
	}
	return -1
}

// Styles returns the underlying marker list.
func (t StyleTable) Styles() []string { return t.styles }

func (t StyleTable) String() string {
	return "[" + strings.Join(t.styles, " ") + "]"
}

// RelativeStyles maps the three level-relative placeholder markers emitted by
// the templating stage to their meanings.
type RelativeStyles struct {
	Subtitle   string `yaml:"subtitle"`   // one level deeper than current
	Sametitle  string `yaml:"sametitle"`  // same level as current
	Supertitle string `yaml:"supertitle"` // one level shallower than current
}

// Validate checks that all three markers are present, single characters, and
// distinct from each other.
func (r RelativeStyles) Validate() error {
	chars := map[string]string{
		"subtitle":   r.Subtitle,
		"sametitle":  r.Sametitle,
		"supertitle": r.Supertitle,
	}
	seen := make(map[string]string, len(chars))
	for name, c := range chars {
		if len(c) != 1 {
			return fmt.Errorf("relative_title_styles.%s %q is not a single character", name, c)
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("relative_title_styles.%s and .%s share marker %q", name, other, c)
		}
		seen[c] = name
	}
	return nil
}

// underlineMarker reports whether line is a run of a single repeated character
// of at least minUnderlineLen, returning that character.
func underlineMarker(line string) (string, bool) {
	if len(line) < minUnderlineLen {
		return "", false
	}
	c := line[0]
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return "", false
		}
	}
	return string(c), true
}
