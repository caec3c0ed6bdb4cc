// Package config holds the predicate language keywords and the gnos.yaml
// rules file.
//
// A rules file declares the map elements (entities and labels), the
// predicate that gates each of them, and the default evaluation context:
//
//	logging:
//	  level: info
//	  format: console
//	selection:
//	  name: router1
//	options:
//	  OSPF: true
//	entities:
//	  - target: router1
//	    title: Router 1
//	    predicate: options.OSPF
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/gnos/internal/value"
)

// Config represents the top-level gnos.yaml configuration.
type Config struct {
	Logging Logging `yaml:"logging"`

	// Selection is the current map selection, exposed as selection.name and
	// selection.value.
	Selection Selection `yaml:"selection"`

	// Options are the user toggles, exposed as options.<NAME>.
	Options map[string]bool `yaml:"options,omitempty"`

	// Context adds further targets: context.<target>.<member> = scalar.
	Context map[string]map[string]interface{} `yaml:"context,omitempty"`

	RuleSet `yaml:",inline"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// Logging configures the zap logger.
type Logging struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level,omitempty"`

	// Format is console or json. Defaults to console.
	Format string `yaml:"format,omitempty"`
}

// Selection is the currently selected map element.
type Selection struct {
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// RuleSet is the set of map elements gated by predicates.
type RuleSet struct {
	Entities []Entity `yaml:"entities,omitempty"`
	Labels   []Label  `yaml:"labels,omitempty"`
}

// Entity is a map node.
type Entity struct {
	Target    string `yaml:"target"`
	Title     string `yaml:"title"`
	Style     string `yaml:"style,omitempty"`
	Predicate string `yaml:"predicate,omitempty"`
}

// Label is a text line attached to an entity at a given level.
type Label struct {
	Label     string `yaml:"label"`
	Target    string `yaml:"target"`
	Level     int    `yaml:"level"`
	Style     string `yaml:"style,omitempty"`
	Predicate string `yaml:"predicate,omitempty"`
}

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"console": true, "json": true}
)

// LoadConfig reads and parses a gnos.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// ParseConfig parses gnos.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no rules file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// FindConfig searches for gnos.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors. Predicate syntax is
// checked by the rules engine, which owns the lexer.
func (c *Config) validate(path string) error {
	if c.Logging.Level != "" && !logLevels[c.Logging.Level] {
		return fmt.Errorf("%s: logging.level %q must be one of debug, info, warn, error", path, c.Logging.Level)
	}
	if c.Logging.Format != "" && !logFormats[c.Logging.Format] {
		return fmt.Errorf("%s: logging.format %q must be console or json", path, c.Logging.Format)
	}

	for name := range c.Options {
		if !IsIdentifier(name) {
			return fmt.Errorf("%s: options: %q is not a valid member name", path, name)
		}
	}

	for target, members := range c.Context {
		if !IsIdentifier(target) {
			return fmt.Errorf("%s: context: %q is not a valid target name", path, target)
		}
		if target == SelectionTarget || target == OptionsTarget {
			return fmt.Errorf("%s: context: %q is reserved, use the %s section", path, target, target)
		}
		for member, raw := range members {
			if !IsIdentifier(member) {
				return fmt.Errorf("%s: context.%s: %q is not a valid member name", path, target, member)
			}
			if _, err := value.FromInterface(raw); err != nil {
				return fmt.Errorf("%s: context.%s.%s: %w", path, target, member, err)
			}
		}
	}

	for i, e := range c.Entities {
		if e.Target == "" {
			return fmt.Errorf("%s: entities[%d]: target is required", path, i)
		}
		if e.Title == "" {
			return fmt.Errorf("%s: entities[%d] (%s): title is required", path, i, e.Target)
		}
	}

	for i, l := range c.Labels {
		if l.Label == "" {
			return fmt.Errorf("%s: labels[%d]: label is required", path, i)
		}
		if l.Target == "" {
			return fmt.Errorf("%s: labels[%d] (%s): target is required", path, i, l.Label)
		}
		if l.Level < 0 {
			return fmt.Errorf("%s: labels[%d] (%s): level must not be negative", path, i, l.Label)
		}
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// EvalContext builds the evaluation context described by the file. The
// selection and options targets are always present.
func (c *Config) EvalContext() value.Context {
	ctx := value.NewContext()
	ctx.Set(SelectionTarget, SelectionNameMember, value.String(c.Selection.Name))
	ctx.Set(SelectionTarget, SelectionValueMember, value.String(c.Selection.Value))
	ctx[OptionsTarget] = make(value.Object, len(c.Options))
	for name, on := range c.Options {
		ctx.Set(OptionsTarget, name, value.Bool(on))
	}
	for target, members := range c.Context {
		for member, raw := range members {
			// validated in ParseConfig
			v, _ := value.FromInterface(raw)
			ctx.Set(target, member, v)
		}
	}
	return ctx
}

// OptionNames returns the configured option names in sorted order.
func (c *Config) OptionNames() []string {
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsIdentifier reports whether s is a valid target or member name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		letter := 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
		if !letter && (i == 0 || ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}
