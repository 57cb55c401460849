package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalYAML = `
title_styles: ["=", "-", "~", "+"]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
targets:
  main:
    files:
      - intro.rst
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, "./specification", cfg.SpecDir)
	require.Equal(t, "./gen", cfg.OutputDir)
	require.Equal(t, "./tmp", cfg.ScratchDir)
	require.Equal(t, []string{"rst2html"}, cfg.RenderCommand)
	require.Equal(t, "main.html", cfg.Targets["main"].Output)
	require.Equal(t, FormatRST, cfg.Targets["main"].FormatType())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsDuplicateStyles(t *testing.T) {
	content := `
title_styles: ["=", "="]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
targets:
  main:
    files: [a.rst]
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
}

func TestLoad_RejectsTargetWithoutFiles(t *testing.T) {
	content := `
title_styles: ["="]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
targets:
  main:
    output: out.html
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
}

func TestLoad_RejectsUnknownFormat(t *testing.T) {
	content := `
title_styles: ["="]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
targets:
  main:
    files: [a.rst]
    format: docx
`
	_, err := Load(writeConfig(t, content))
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SPECBUILD_TEST_DIR", "/srv/spec")
	content := minimalYAML + "spec_dir: ${SPECBUILD_TEST_DIR}\n"
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.Equal(t, "/srv/spec", cfg.SpecDir)
}

func TestResolveTarget_UnknownTarget(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	_, err = cfg.ResolveTarget("nightly")
	require.Error(t, err)
}

func TestResolveTarget_SplicesListGroups(t *testing.T) {
	content := `
title_styles: ["=", "-"]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
groups:
  modules:
    - modules/a.rst
    - modules/b.rst
targets:
  main:
    files:
      - intro.rst
      - "group:modules"
      - outro.rst
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	target, err := cfg.ResolveTarget("main")
	require.NoError(t, err)
	require.Len(t, target.Files, 4)
	require.Equal(t, "intro.rst", target.Files[0].Fragment())
	require.Equal(t, "modules/a.rst", target.Files[1].Fragment())
	require.Equal(t, "modules/b.rst", target.Files[2].Fragment())
	require.Equal(t, "outro.rst", target.Files[3].Fragment())
}

func TestResolveTarget_ExpandsGroupInsideLevelMap(t *testing.T) {
	content := `
title_styles: ["=", "-", "~"]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
groups:
  appendices:
    - appendix-a.rst
    - appendix-b.rst
targets:
  main:
    files:
      - intro.rst
      - 1: "group:appendices"
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	target, err := cfg.ResolveTarget("main")
	require.NoError(t, err)
	require.Len(t, target.Files, 2)

	nested := target.Files[1]
	require.Equal(t, NodeNested, nested.Kind())
	child := nested.Nested()[1]
	require.Equal(t, NodeSeq, child.Kind())
	require.Len(t, child.Seq(), 2)
}

func TestResolveTarget_MissingGroup(t *testing.T) {
	content := `
title_styles: ["="]
relative_title_styles:
  subtitle: "<"
  sametitle: "/"
  supertitle: ">"
targets:
  main:
    files:
      - "group:ghost"
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	_, err = cfg.ResolveTarget("main")
	require.Error(t, err)
	require.Contains(t, err.Error(), "group")
}
