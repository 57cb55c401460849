package titles

import (
	"strings"

	"git.home.luguber.info/inful/specbuild/internal/specerr"
)

// FixRelativeTitles replaces relative title underlines with absolute style
// markers in an already-normalized, concatenated document.
//
// The templating stage cannot know the final absolute nesting depth when it
// emits section breaks, so it emits level-relative placeholders instead:
// subtitle (one level deeper), sametitle (same level), supertitle (one level
// shallower). Each placeholder is resolved against the most recently seen
// absolute title underline.
func FixRelativeTitles(content string, styles StyleTable, rel RelativeStyles) (string, error) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	currentTitleStyle := ""
	for i, line := range lines {
		lineNo := i + 1

		marker, isUnderline := underlineMarker(line)
		if !isUnderline || (marker != rel.Subtitle && marker != rel.Sametitle && marker != rel.Supertitle) {
			if isUnderline && styles.IndexOf(marker) >= 0 {
				currentTitleStyle = marker
			}
			out = append(out, line)
			continue
		}

		if currentTitleStyle == "" {
			return "", specerr.New(specerr.CategoryHeading, specerr.SeverityFatal,
				"relative title appears before any absolute title").
				WithContext("line", lineNo)
		}
		currentTitleLevel := styles.IndexOf(currentTitleStyle)

		var replacement string
		switch marker {
		case rel.Subtitle:
			if currentTitleLevel+1 == styles.Depth() {
				return "", specerr.New(specerr.CategoryHeading, specerr.SeverityFatal,
					"encountered sub-title line style but we can't go any lower").
					WithContext("line", lineNo)
			}
			replacement = styles.At(currentTitleLevel + 1)
		case rel.Sametitle:
			replacement = styles.At(currentTitleLevel)
		case rel.Supertitle:
			if currentTitleLevel == 0 {
				return "", specerr.New(specerr.CategoryHeading, specerr.SeverityFatal,
					"encountered super-title line style but we can't go any higher").
					WithContext("line", lineNo)
			}
			replacement = styles.At(currentTitleLevel - 1)
		}

		// Note: currentTitleStyle deliberately does not advance here. Only
		// underlines that were absolute in the input set the reference level,
		// matching how consecutive relative markers resolve against the same
		// anchor title.
		out = append(out, strings.ReplaceAll(line, marker, replacement))
	}

	return strings.Join(out, "\n"), nil
}
