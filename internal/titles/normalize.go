package titles

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/specbuild/internal/logfields"
	"git.home.luguber.info/inful/specbuild/internal/specerr"
)

// Normalize rewrites the title underlines of one fragment so its topmost
// heading lands at targetLevel once the fragment is merged into the final
// document, preserving the fragment's internal relative nesting.
//
// The first title encountered sets the fragment's offset: every subsequent
// title is shifted by the same constant (targetLevel - offset). Fragments are
// not required to start at the table's top style; starting deeper only logs a
// warning.
//
// A title may nest at most one level deeper than the title before it, but may
// return to any shallower level. Violations abort with an error naming the
// fragment and line.
func Normalize(name string, content string, targetLevel int, styles StyleTable) (string, error) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	// We expect the fragment to start with top-level titles.
	prevLineTitleLevel := 0
	fileOffset := -1
	prevNonTitleLine := ""

	for i, line := range lines {
		lineNo := i + 1

		marker, isUnderline := underlineMarker(line)
		lineTitleLevel := -1
		if isUnderline {
			lineTitleLevel = styles.IndexOf(marker)
		}
		// Anything that is not a run of a style-table character is ordinary
		// content.
		if lineTitleLevel < 0 {
			out = append(out, line)
			prevNonTitleLine = line
			continue
		}
		// The underline must be at least as long as the title text above it.
		// Shorter runs are decorative separators, not titles.
		if len(prevNonTitleLine) > len(line) {
			out = append(out, line)
			prevNonTitleLine = line
			continue
		}

		if fileOffset < 0 {
			fileOffset = lineTitleLevel
			if fileOffset != 0 {
				slog.Warn("Fragment does not start at the top title style",
					logfields.Fragment(name),
					slog.String("style", marker),
					slog.String("preferred", styles.At(0)))
			}
		}

		// The fragment may go one level deeper or any number shallower.
		if prevLineTitleLevel-lineTitleLevel < -1 {
			return "", specerr.InvalidDescent(name, lineNo, marker, styles.At(prevLineTitleLevel))
		}
		prevLineTitleLevel = lineTitleLevel

		adjustedLevel := targetLevel + lineTitleLevel - fileOffset
		if adjustedLevel >= styles.Depth() {
			return "", specerr.StyleTableExhausted(name, lineNo)
		}
		if adjustedLevel < 0 {
			return "", specerr.AboveTopLevel(name, lineNo)
		}

		if adjustedLevel == lineTitleLevel {
			out = append(out, line)
			continue
		}
		out = append(out, strings.ReplaceAll(line, marker, styles.At(adjustedLevel)))
	}

	return strings.Join(out, "\n"), nil
}
