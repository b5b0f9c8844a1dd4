package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"battery-budget/internal/model"
	"battery-budget/internal/snapshot"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk plan shape (YAML).
type Config struct {
	Name string `yaml:"name"`

	// Optional includes (e.g. examples/boats/*.yaml, examples/catalogs/*.yaml).
	// Explicit settings fields override SettingsFile; included loads and
	// sources come before the inline ones.
	SettingsFile string `yaml:"settings_file"`
	LoadsFile    string `yaml:"loads_file"`
	SourcesFile  string `yaml:"sources_file"`

	Settings SettingsOverride        `yaml:"settings"`
	Loads    []snapshot.LoadRecord   `yaml:"loads"`
	Sources  []snapshot.SourceRecord `yaml:"sources"`

	base *snapshot.SettingsRecord
}

// SettingsOverride holds only the settings fields a file names explicitly.
type SettingsOverride struct {
	Voltage      *snapshot.Number `yaml:"voltage"`
	Chemistry    *string          `yaml:"chemistry"`
	DoD          *snapshot.Number `yaml:"dod"`
	Reserve      *snapshot.Number `yaml:"reserve"`
	Days         *snapshot.Number `yaml:"days"`
	InvEff       *snapshot.Number `yaml:"inv_eff"`
	InvStandby   *snapshot.Number `yaml:"inv_standby"`
	Derate       *snapshot.Number `yaml:"derate"`
	ActualBankAh *snapshot.Number `yaml:"actual_bank_ah"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges a plan, but does not validate it.
// .json and .hjson files are read as snapshots and carry no includes.
func LoadUnchecked(path string) (*Config, error) {
	if f := snapshot.FormatFromPath(path); f == snapshot.FormatJSON || f == snapshot.FormatHJSON {
		doc, err := snapshot.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return FromDocument(doc), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if c.SettingsFile != "" {
		var w struct {
			Settings snapshot.SettingsRecord `yaml:"settings"`
		}
		w.Settings = snapshot.DefaultSettingsRecord()
		if err := loadInclude(path, c.SettingsFile, &w); err != nil {
			return nil, err
		}
		c.base = &w.Settings
	}
	if c.LoadsFile != "" {
		var w struct {
			Loads []snapshot.LoadRecord `yaml:"loads"`
		}
		if err := loadInclude(path, c.LoadsFile, &w); err != nil {
			return nil, err
		}
		c.Loads = append(w.Loads, c.Loads...)
	}
	if c.SourcesFile != "" {
		var w struct {
			Sources []snapshot.SourceRecord `yaml:"sources"`
		}
		if err := loadInclude(path, c.SourcesFile, &w); err != nil {
			return nil, err
		}
		c.Sources = append(w.Sources, c.Sources...)
	}
	return &c, nil
}

// FromDocument wraps a decoded snapshot as a plan.
func FromDocument(doc *snapshot.Document) *Config {
	settings := doc.Settings
	return &Config{
		Name:    doc.Name,
		Loads:   append([]snapshot.LoadRecord(nil), doc.Loads...),
		Sources: append([]snapshot.SourceRecord(nil), doc.Sources...),
		base:    &settings,
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	s := c.ToInputs().Settings.Normalize()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("settings invalid: %w", err)
	}
	return nil
}

// Document returns the merged plan as a snapshot document.
func (c *Config) Document() *snapshot.Document {
	doc := snapshot.NewDocument()
	doc.Name = c.Name
	base := snapshot.DefaultSettingsRecord()
	if c.base != nil {
		base = *c.base
	}
	doc.Settings = MergeSettings(base, c.Settings)
	doc.Loads = append(doc.Loads, c.Loads...)
	doc.Sources = append(doc.Sources, c.Sources...)
	return doc
}

func (c *Config) ToInputs() model.Inputs {
	return c.Document().ToInputs()
}

// MergeSettings overlays every field set in override onto base. Unlike
// non-zero overlays, an explicit 0 is kept.
func MergeSettings(base snapshot.SettingsRecord, override SettingsOverride) snapshot.SettingsRecord {
	out := base
	if override.Voltage != nil {
		out.Voltage = *override.Voltage
	}
	if override.Chemistry != nil {
		out.Chemistry = *override.Chemistry
	}
	if override.DoD != nil {
		out.DoD = *override.DoD
	}
	if override.Reserve != nil {
		out.Reserve = *override.Reserve
	}
	if override.Days != nil {
		out.Days = *override.Days
	}
	if override.InvEff != nil {
		out.InvEff = *override.InvEff
	}
	if override.InvStandby != nil {
		out.InvStandby = *override.InvStandby
	}
	if override.Derate != nil {
		out.Derate = *override.Derate
	}
	if override.ActualBankAh != nil {
		out.ActualBankAh = *override.ActualBankAh
	}
	return out
}

// ResolvePath interprets a relative include against the directory of the
// including file first, falling back to the path as given (relative to cwd).
func ResolvePath(from, include string) string {
	if filepath.IsAbs(include) {
		return include
	}
	cand := filepath.Join(filepath.Dir(from), include)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return include
}

func loadInclude(from, include string, out any) error {
	p := ResolvePath(from, include)
	raw, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
