// Package config loads spvgen compile settings from a TOML file.
//
// A complete file looks like:
//
//	[target]
//	version = "1.3"
//	capabilities = ["Sampled1D"]
//
//	[entry]
//	name = "main"
//	stage = true
//
//	[source]
//	language = "essl"
//	version = 310
//
//	[precision]
//	float = "medium"
//	int = "high"
//
//	[batch]
//	parallelism = 8
//	fail-fast = true
//
// Every key is optional; missing keys keep the values of Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/gogpu/spvgen/ir"
	"github.com/gogpu/spvgen/spirv"
)

// FileName is the configuration file looked up in the working directory
// when no path is given.
const FileName = "spvgen.toml"

// Config is the decoded configuration file.
type Config struct {
	Target    Target    `toml:"target"`
	Entry     Entry     `toml:"entry"`
	Source    Source    `toml:"source"`
	Precision Precision `toml:"precision"`
	Batch     Batch     `toml:"batch"`
}

// Target selects the SPIR-V version and the extra capabilities.
type Target struct {
	Version      string   `toml:"version"`
	Capabilities []string `toml:"capabilities,omitempty"`
}

// Entry names the entry point function.
type Entry struct {
	Name string `toml:"name"`
	// Stage derives the execution model from the module stage instead of
	// always exporting a fragment entry.
	Stage bool `toml:"stage"`
}

// Source is recorded with OpSource.
type Source struct {
	Language string `toml:"language"`
	Version  uint32 `toml:"version"`
}

// Precision holds module default precisions. Empty values leave the
// document's own defaults alone.
type Precision struct {
	Float string `toml:"float,omitempty"`
	Int   string `toml:"int,omitempty"`
}

// Batch controls the batch orchestrator.
type Batch struct {
	Parallelism int  `toml:"parallelism"`
	FailFast    bool `toml:"fail-fast"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Target: Target{Version: "1.0"},
		Entry:  Entry{Name: "main"},
		Source: Source{Language: "essl", Version: 310},
		Batch:  Batch{Parallelism: 4},
	}
}

// Parse decodes a TOML document on top of Default and validates it.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the file at path. An empty path loads FileName
// from the working directory and falls back to Default when it does not
// exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks every value that Options and ApplyPrecision convert.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if _, err := ir.ParsePrecision(c.Precision.Float); err != nil {
		return fmt.Errorf("precision.float: %w", err)
	}
	if _, err := ir.ParsePrecision(c.Precision.Int); err != nil {
		return fmt.Errorf("precision.int: %w", err)
	}
	if c.Batch.Parallelism < 1 {
		return fmt.Errorf("batch.parallelism must be at least 1, got %d", c.Batch.Parallelism)
	}
	return nil
}

// Options converts the configuration into compile options.
func (c *Config) Options() (spirv.Options, error) {
	opts := spirv.DefaultOptions()

	if c.Target.Version != "" {
		v, err := spirv.ParseVersion(c.Target.Version)
		if err != nil {
			return opts, fmt.Errorf("target.version: %w", err)
		}
		opts.Version = v
	}
	for _, name := range c.Target.Capabilities {
		capability, err := spirv.ParseCapability(name)
		if err != nil {
			return opts, fmt.Errorf("target.capabilities: %w", err)
		}
		opts.Capabilities = append(opts.Capabilities, capability)
	}

	if c.Entry.Name != "" {
		opts.EntryPoint = c.Entry.Name
	}
	opts.StageEntryPoint = c.Entry.Stage

	if c.Source.Language != "" {
		lang, err := spirv.ParseSourceLanguage(c.Source.Language)
		if err != nil {
			return opts, fmt.Errorf("source.language: %w", err)
		}
		opts.SourceLanguage = lang
		opts.SourceVersion = c.Source.Version
	}
	return opts, nil
}

// ApplyPrecision sets the module default precisions that the document left
// at none.
func (c *Config) ApplyPrecision(m *ir.Module) error {
	fp, err := ir.ParsePrecision(c.Precision.Float)
	if err != nil {
		return fmt.Errorf("precision.float: %w", err)
	}
	ip, err := ir.ParsePrecision(c.Precision.Int)
	if err != nil {
		return fmt.Errorf("precision.int: %w", err)
	}
	if m.FloatPrecision == ir.PrecisionNone {
		m.FloatPrecision = fp
	}
	if m.IntPrecision == ir.PrecisionNone {
		m.IntPrecision = ip
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return nil
}
