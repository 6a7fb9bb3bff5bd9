// Package config loads and validates ETAS simulation scenario files.
//
// Scenarios are YAML documents with a process section (the point-process
// parameters) and a catalog section (run length, burn-in, seed). After
// decoding, the document is validated against an embedded CUE schema so
// range violations surface as per-field messages before any simulation
// state is created.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/mjziebarth/etascatgen/internal/etas"
)

//go:embed schema.cue
var schemaCUE string

// Process holds the point-process parameters of a scenario.
// Rates and times must share one consistent unit system.
type Process struct {
	BackgroundRate    float64 `yaml:"background_rate" json:"background_rate"`
	MMin              float64 `yaml:"m_min" json:"m_min"`
	MMax              float64 `yaml:"m_max" json:"m_max"`
	Beta              float64 `yaml:"beta" json:"beta"`
	P                 float64 `yaml:"p" json:"p"`
	C                 float64 `yaml:"c" json:"c"`
	MRef              float64 `yaml:"m_ref" json:"m_ref"`
	OffspringFraction float64 `yaml:"offspring_fraction" json:"offspring_fraction"`
}

// Catalog holds the run settings of a scenario.
type Catalog struct {
	Events int    `yaml:"events" json:"events"`
	BurnIn int    `yaml:"burn_in" json:"burn_in"`
	Seed   uint64 `yaml:"seed" json:"seed"`
}

// Scenario is one complete simulation request.
type Scenario struct {
	Process Process `yaml:"process" json:"process"`
	Catalog Catalog `yaml:"catalog" json:"catalog"`
}

// ValidationError describes one schema violation in a scenario.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Load reads and decodes a scenario file. Unknown fields are rejected so
// typos don't silently fall back to zero values. Schema validation is a
// separate step; see Validate.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

// Validate checks the scenario against the embedded CUE schema and returns
// one entry per violation. An empty slice means the scenario is valid.
func (s *Scenario) Validate() []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded and fixed; a compile failure is a bug here,
		// not in the scenario.
		return []ValidationError{{Field: "schema", Message: err.Error()}}
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(ctx.Encode(s))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		path := cueerrors.Path(e)
		field := ""
		if len(path) > 0 {
			field = path[len(path)-1]
		}
		out = append(out, ValidationError{
			Field:   field,
			Message: e.Error(),
		})
	}
	return out
}

// Params maps the process section onto the simulation core's parameter set.
func (s *Scenario) Params() etas.Params {
	return etas.Params{
		Mu0:               s.Process.BackgroundRate,
		MMin:              s.Process.MMin,
		MMax:              s.Process.MMax,
		Beta:              s.Process.Beta,
		P:                 s.Process.P,
		C:                 s.Process.C,
		MRef:              s.Process.MRef,
		OffspringFraction: s.Process.OffspringFraction,
	}
}
