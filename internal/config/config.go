// Package config loads leadreview.yaml.
//
// The file is optional. Every field has a default, and command-line flags
// override whatever the file sets. Documents are decoded strictly (unknown
// keys are errors) and then checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/witherBattler/edit-hunt-ai/internal/autosave"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
)

// DefaultFile is looked up in the working directory when --config is not set.
const DefaultFile = "leadreview.yaml"

// DefaultInput is the leads file reviewed when none is configured.
const DefaultInput = "leads.jsonl"

//go:embed schema.cue
var schemaCUE string

// Config holds resolved settings.
type Config struct {
	Input         string
	Paths         persist.Paths
	Journal       string // empty disables the action journal
	AutosaveDelay time.Duration
	Highlight     Highlight
}

// Highlight lists keywords marked in the review screen. Matching is
// case-insensitive.
type Highlight struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// file mirrors the YAML document.
type file struct {
	Input         string     `yaml:"input"`
	Accepted      string     `yaml:"accepted"`
	Rejected      string     `yaml:"rejected"`
	Snapshot      string     `yaml:"snapshot"`
	Journal       string     `yaml:"journal"`
	AutosaveDelay string     `yaml:"autosave_delay"`
	Highlight     *Highlight `yaml:"highlight"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:         DefaultInput,
		Paths:         persist.DefaultPaths(),
		AutosaveDelay: autosave.DefaultDelay,
		Highlight: Highlight{
			Positive: []string{"video editor", "hiring"},
			Negative: []string{"for hire"},
		},
	}
}

// Load reads the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// Parse decodes a YAML document over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validate(doc); err != nil {
		return Config{}, err
	}

	if f.Input != "" {
		cfg.Input = f.Input
	}
	if f.Accepted != "" {
		cfg.Paths.Accepted = f.Accepted
	}
	if f.Rejected != "" {
		cfg.Paths.Rejected = f.Rejected
	}
	if f.Snapshot != "" {
		cfg.Paths.Snapshot = f.Snapshot
	}
	cfg.Journal = f.Journal
	if f.AutosaveDelay != "" {
		d, err := time.ParseDuration(f.AutosaveDelay)
		if err != nil {
			return Config{}, fmt.Errorf("autosave_delay: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("autosave_delay must be positive, got %s", f.AutosaveDelay)
		}
		cfg.AutosaveDelay = d
	}
	if f.Highlight != nil {
		cfg.Highlight = *f.Highlight
	}
	return cfg, nil
}

// validate checks a decoded document against #Config.
func validate(doc any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
