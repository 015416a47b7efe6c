package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coregx/sqlobject"
)

// Manifest declares the database and the models the CLI works with.
//
//	driver: sqlite
//	dsn: pets.db
//	models:
//	  - name: Cat
//	    belongs_to:
//	      - name: human
//	        foreign_key: owner_id
type Manifest struct {
	Driver string      `yaml:"driver"`
	DSN    string      `yaml:"dsn"`
	Models []ModelSpec `yaml:"models"`
}

// ModelSpec declares one model and its associations.
type ModelSpec struct {
	Name          string        `yaml:"name"`
	Table         string        `yaml:"table,omitempty"`
	BelongsTo     []AssocSpec   `yaml:"belongs_to,omitempty"`
	HasMany       []AssocSpec   `yaml:"has_many,omitempty"`
	HasOneThrough []ThroughSpec `yaml:"has_one_through,omitempty"`
}

// AssocSpec declares a belongs_to or has_many association. Empty fields keep
// the defaults.
type AssocSpec struct {
	Name       string `yaml:"name"`
	ClassName  string `yaml:"class_name,omitempty"`
	ForeignKey string `yaml:"foreign_key,omitempty"`
	PrimaryKey string `yaml:"primary_key,omitempty"`
}

// ThroughSpec declares a has_one_through association.
type ThroughSpec struct {
	Name    string `yaml:"name"`
	Through string `yaml:"through"`
	Source  string `yaml:"source"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Driver == "" {
		return errors.New("driver is required")
	}
	if m.DSN == "" {
		return errors.New("dsn is required")
	}
	seen := make(map[string]bool, len(m.Models))
	for i, spec := range m.Models {
		if spec.Name == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("models[%d]: duplicate model %q", i, spec.Name)
		}
		seen[spec.Name] = true
		for j, th := range spec.HasOneThrough {
			if th.Name == "" || th.Through == "" || th.Source == "" {
				return fmt.Errorf("models[%d].has_one_through[%d]: name, through and source are required", i, j)
			}
		}
	}
	return nil
}

// Open connects to the manifest's database and defines every model with its
// associations.
func (m *Manifest) Open(opts ...sqlobject.Option) (*sqlobject.DB, error) {
	db, err := sqlobject.Open(m.Driver, m.DSN, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.define(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (m *Manifest) define(db *sqlobject.DB) error {
	for _, spec := range m.Models {
		var mopts []sqlobject.ModelOption
		if spec.Table != "" {
			mopts = append(mopts, sqlobject.Table(spec.Table))
		}
		model, err := db.Define(spec.Name, mopts...)
		if err != nil {
			return err
		}

		for _, a := range spec.BelongsTo {
			if err := model.BelongsTo(a.Name, a.options()...); err != nil {
				return err
			}
		}
		for _, a := range spec.HasMany {
			if err := model.HasMany(a.Name, a.options()...); err != nil {
				return err
			}
		}
		for _, th := range spec.HasOneThrough {
			if err := model.HasOneThrough(th.Name, th.Through, th.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a AssocSpec) options() []sqlobject.AssociationOption {
	var opts []sqlobject.AssociationOption
	if a.ClassName != "" {
		opts = append(opts, sqlobject.ClassName(a.ClassName))
	}
	if a.ForeignKey != "" {
		opts = append(opts, sqlobject.ForeignKey(a.ForeignKey))
	}
	if a.PrimaryKey != "" {
		opts = append(opts, sqlobject.PrimaryKey(a.PrimaryKey))
	}
	return opts
}
