package titles

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/specbuild/internal/specerr"
)

func mustStyles(t *testing.T, styles ...string) StyleTable {
	t.Helper()
	table, err := NewStyleTable(styles)
	require.NoError(t, err)
	return table
}

func defaultStyles(t *testing.T) StyleTable {
	return mustStyles(t, "=", "-", "~", "+")
}

// fragment builds a fragment from title texts and their underline markers.
func fragment(sections ...[2]string) string {
	var b strings.Builder
	for _, s := range sections {
		title, marker := s[0], s[1]
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat(marker, len(title)) + "\n")
		b.WriteString("Body text.\n\n")
	}
	return b.String()
}

func TestNewStyleTable_RejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := NewStyleTable(nil)
	require.Error(t, err)

	_, err = NewStyleTable([]string{"=", "-", "="})
	require.Error(t, err)

	_, err = NewStyleTable([]string{"=", "--"})
	require.Error(t, err)
}

func TestNormalize_ShiftsEveryTitleUniformly(t *testing.T) {
	// The documented example: markers =, -, -, =, - at target level 1
	// become -, ~, ~, -, ~ (every level shifted down by one).
	input := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Beta", "-"},
		[2]string{"Gamma", "-"},
		[2]string{"Delta", "="},
		[2]string{"Epsilon", "-"},
	)

	got, err := Normalize("example.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)

	want := fragment(
		[2]string{"Alpha", "-"},
		[2]string{"Beta", "~"},
		[2]string{"Gamma", "~"},
		[2]string{"Delta", "-"},
		[2]string{"Epsilon", "~"},
	)
	require.Equal(t, want, got)
}

func TestNormalize_TargetLevelZeroIsIdentity(t *testing.T) {
	input := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Beta", "-"},
	)
	got, err := Normalize("example.rst", input, 0, defaultStyles(t))
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func TestNormalize_FirstTitleSetsOffset(t *testing.T) {
	// Fragment starts at "-" (level 1); offset is derived from that first
	// title, so target level 0 lifts everything up by one.
	input := fragment(
		[2]string{"Alpha", "-"},
		[2]string{"Beta", "~"},
	)
	got, err := Normalize("deep.rst", input, 0, defaultStyles(t))
	require.NoError(t, err)

	want := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Beta", "-"},
	)
	require.Equal(t, want, got)
}

func TestNormalize_DescentByMoreThanOneLevelFails(t *testing.T) {
	input := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Gamma", "~"}, // jumps from level 0 to level 2
	)
	_, err := Normalize("bad.rst", input, 0, defaultStyles(t))
	require.Error(t, err)

	var berr *specerr.BuildError
	require.True(t, errors.As(err, &berr))
	require.Equal(t, specerr.CategoryHeading, berr.Category)
	require.Equal(t, "bad.rst", berr.Context["fragment"])
	require.Equal(t, 6, berr.Context["line"])
}

func TestNormalize_AscentByAnyAmountIsAllowed(t *testing.T) {
	input := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Beta", "-"},
		[2]string{"Gamma", "~"},
		[2]string{"Delta", "="}, // back to the top in one jump
	)
	_, err := Normalize("ok.rst", input, 0, defaultStyles(t))
	require.NoError(t, err)
}

func TestNormalize_StyleTableExhausted(t *testing.T) {
	input := fragment(
		[2]string{"Alpha", "="},
		[2]string{"Beta", "-"},
		[2]string{"Gamma", "~"},
		[2]string{"Delta", "+"},
	)
	// Shifting down by one pushes "+" past the end of the table.
	_, err := Normalize("deep.rst", input, 1, defaultStyles(t))
	require.Error(t, err)

	var berr *specerr.BuildError
	require.True(t, errors.As(err, &berr))
	require.Equal(t, specerr.CategoryHeading, berr.Category)
}

func TestNormalize_ShortUnderlineIsDecorative(t *testing.T) {
	// The underline is shorter than its title text, so it is ordinary
	// content and must pass through untouched.
	input := "A very long title\n===\n\nBody.\n\n"
	got, err := Normalize("decor.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func TestNormalize_NonStyleRunsPassThrough(t *testing.T) {
	input := "Title\n*****\n\nBody.\n\n"
	got, err := Normalize("other.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func TestNormalize_MixedCharacterRunIsContent(t *testing.T) {
	input := "Title\n=-=-=-\n\nBody.\n\n"
	got, err := Normalize("mixed.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func TestNormalize_PreservesNonTitleContentExactly(t *testing.T) {
	input := "Intro\n=====\n\nSome text with === inline.\n\n  indented\n\n"
	got, err := Normalize("content.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)
	require.Equal(t,
		"Intro\n-----\n\nSome text with === inline.\n\n  indented\n\n",
		got)
}

func TestNormalize_AncestryPreservedAfterAdjustment(t *testing.T) {
	input := fragment(
		[2]string{"Parent", "="},
		[2]string{"Child", "-"},
		[2]string{"Grandchild", "~"},
	)
	got, err := Normalize("tree.rst", input, 1, defaultStyles(t))
	require.NoError(t, err)

	styles := defaultStyles(t)
	var levels []int
	lines := strings.Split(got, "\n")
	for _, line := range lines {
		if m, ok := underlineMarker(line); ok {
			if idx := styles.IndexOf(m); idx >= 0 {
				levels = append(levels, idx)
			}
		}
	}
	require.Equal(t, []int{1, 2, 3}, levels)
}

func TestNormalize_AscendingAboveFragmentTopFails(t *testing.T) {
	// First title at level 1 sets offset 1; a later level-0 title would
	// adjust above the top of the table at target level 0.
	input := fragment(
		[2]string{"Alpha", "-"},
		[2]string{"Beta", "="},
	)
	_, err := Normalize("above.rst", input, 0, defaultStyles(t))
	require.Error(t, err)

	var berr *specerr.BuildError
	require.True(t, errors.As(err, &berr))
	require.Equal(t, specerr.CategoryHeading, berr.Category)
}
