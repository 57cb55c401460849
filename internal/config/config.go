// Package config loads and validates targets.yaml, the build target
// descriptor: the title style tables, the recursive files tree per target,
// reusable file groups, and the external collaborator commands.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/specbuild/internal/specerr"
	"git.home.luguber.info/inful/specbuild/internal/titles"
)

// groupPrefix marks a files entry as a reference to a named group.
const groupPrefix = "group:"

// Format selects how a target's concatenated document is rendered to HTML.
type Format string

const (
	FormatRST      Format = "rst"      // external renderer command (default)
	FormatMarkdown Format = "markdown" // in-process goldmark rendering
)

// Config represents the full targets.yaml file.
type Config struct {
	TitleStyles         []string              `yaml:"title_styles"`
	RelativeTitleStyles titles.RelativeStyles `yaml:"relative_title_styles"`

	SpecDir    string `yaml:"spec_dir,omitempty"`
	OutputDir  string `yaml:"output_dir,omitempty"`
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	// TemplateCommand is the external templating pass argv; the input file
	// path is appended as the final argument. Empty disables templating.
	TemplateCommand []string `yaml:"template_command,omitempty"`
	// RenderCommand is the external markup renderer argv for rst targets;
	// input and output file paths are appended as the final two arguments.
	RenderCommand []string `yaml:"render_command,omitempty"`
	// Stylesheets are CSS paths handed to the renderer.
	Stylesheets []string `yaml:"stylesheets,omitempty"`

	Groups  map[string]FileNode `yaml:"groups,omitempty"`
	Targets map[string]Target   `yaml:"targets"`

	Howto *HowtoConfig `yaml:"howto,omitempty"`

	configPath string
}

// Target describes one build target.
type Target struct {
	Files  []FileNode `yaml:"files"`
	Output string     `yaml:"output,omitempty"`
	Format Format     `yaml:"format,omitempty"`
}

// HowtoConfig describes the optional side document that is templated and
// rendered alongside the main target.
type HowtoConfig struct {
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
}

// FormatType returns the normalized format value. Unknown formats return ""
// so callers can reject them.
func (t Target) FormatType() Format {
	s := strings.ToLower(strings.TrimSpace(string(t.Format)))
	switch s {
	case "", string(FormatRST):
		return FormatRST
	case string(FormatMarkdown):
		return FormatMarkdown
	default:
		return ""
	}
}

// Load reads, expands and validates a targets.yaml file.
func Load(configPath string) (*Config, error) {
	// .env values feed ${VAR} expansion below; absence is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configPath = configPath

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SpecDir == "" {
		c.SpecDir = "./specification"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./gen"
	}
	if c.ScratchDir == "" {
		c.ScratchDir = "./tmp"
	}
	if len(c.RenderCommand) == 0 {
		c.RenderCommand = []string{"rst2html"}
	}
	if c.Howto != nil && c.Howto.Output == "" {
		c.Howto.Output = "howtos.html"
	}
	for name, t := range c.Targets {
		if t.Output == "" {
			t.Output = name + ".html"
			c.Targets[name] = t
		}
	}
}

func (c *Config) validate() error {
	if _, err := titles.NewStyleTable(c.TitleStyles); err != nil {
		return fmt.Errorf("%s: %w", c.configPath, err)
	}
	if err := c.RelativeTitleStyles.Validate(); err != nil {
		return fmt.Errorf("%s: %w", c.configPath, err)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("%s: no targets defined", c.configPath)
	}
	for name, t := range c.Targets {
		if len(t.Files) == 0 {
			return fmt.Errorf("%s: target %q has no 'files' list", c.configPath, name)
		}
		if t.FormatType() == "" {
			return fmt.Errorf("%s: target %q has unknown format %q", c.configPath, name, t.Format)
		}
	}
	return nil
}

// StyleTable returns the validated title style table.
func (c *Config) StyleTable() titles.StyleTable {
	table, err := titles.NewStyleTable(c.TitleStyles)
	if err != nil {
		// validate() already vetted the styles.
		panic(err)
	}
	return table
}

// ResolveTarget looks up a target by name and expands all group references in
// its files tree. An unknown target or a dangling group reference is a fatal
// configuration error, raised before any fragment I/O.
func (c *Config) ResolveTarget(name string) (Target, error) {
	target, ok := c.Targets[name]
	if !ok {
		return Target{}, specerr.UnknownTarget(name, c.configPath)
	}

	resolved := make([]FileNode, 0, len(target.Files))
	for _, node := range target.Files {
		expanded, err := c.expandGroups(node)
		if err != nil {
			return Target{}, err
		}
		// A list group referenced at the top level splices into the files
		// list rather than nesting.
		if node.Kind() == NodeFragment && strings.HasPrefix(node.Fragment(), groupPrefix) && expanded.Kind() == NodeSeq {
			resolved = append(resolved, expanded.Seq()...)
			continue
		}
		resolved = append(resolved, expanded)
	}
	target.Files = resolved
	return target, nil
}

// expandGroups recursively replaces "group:NAME" references with the named
// group's node.
func (c *Config) expandGroups(node FileNode) (FileNode, error) {
	switch node.Kind() {
	case NodeFragment:
		if !strings.HasPrefix(node.Fragment(), groupPrefix) {
			return node, nil
		}
		groupName := strings.TrimPrefix(node.Fragment(), groupPrefix)
		group, ok := c.Groups[groupName]
		if !ok {
			return FileNode{}, specerr.MissingGroup(groupName)
		}
		return c.expandGroups(group)

	case NodeSeq:
		children := make([]FileNode, 0, len(node.Seq()))
		for _, child := range node.Seq() {
			expanded, err := c.expandGroups(child)
			if err != nil {
				return FileNode{}, err
			}
			children = append(children, expanded)
		}
		return SeqNode(children...), nil

	case NodeNested:
		nested := make(map[int]FileNode, len(node.Nested()))
		for level, child := range node.Nested() {
			expanded, err := c.expandGroups(child)
			if err != nil {
				return FileNode{}, err
			}
			nested[level] = expanded
		}
		return NestedNode(nested), nil
	}
	return FileNode{}, specerr.MalformedFilesEntry(fmt.Sprintf("kind %d", node.Kind()))
}
