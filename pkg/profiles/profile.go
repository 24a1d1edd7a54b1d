// Package profiles holds named scenario parameter sets loaded from YAML.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/engine"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// DefaultName is the name of the built-in profile.
const DefaultName = "default"

// Profile overrides scenario parameters. Unset fields keep the base value.
type Profile struct {
	Name                string    `yaml:"name" json:"name"`
	Description         string    `yaml:"description" json:"description,omitempty"`
	AdditionalCoverage  *float64  `yaml:"additional_coverage,omitempty" json:"additional_coverage,omitempty"`
	SpotDiscount        *float64  `yaml:"spot_discount,omitempty" json:"spot_discount,omitempty"`
	PassThrough         []float64 `yaml:"pass_through,omitempty" json:"pass_through,omitempty"`
	ComputeProductCodes []string  `yaml:"compute_product_codes,omitempty" json:"compute_product_codes,omitempty"`
	ExcludeServices     []string  `yaml:"exclude_services,omitempty" json:"exclude_services,omitempty"`
}

// Default returns the built-in profile, which carries the given parameters
// unchanged.
func Default(base model.Params) *Profile {
	cov := base.AdditionalCoverage
	disc := base.SpotDiscount
	return &Profile{
		Name:                DefaultName,
		Description:         "Configured scenario defaults",
		AdditionalCoverage:  &cov,
		SpotDiscount:        &disc,
		PassThrough:         slices.Clone(base.PassThrough),
		ComputeProductCodes: slices.Clone(base.ComputeProductCodes),
		ExcludeServices:     slices.Clone(base.ExcludeServices),
	}
}

// Apply layers the profile over base.
func (p *Profile) Apply(base model.Params) model.Params {
	out := base
	if p.AdditionalCoverage != nil {
		out.AdditionalCoverage = *p.AdditionalCoverage
	}
	if p.SpotDiscount != nil {
		out.SpotDiscount = *p.SpotDiscount
	}
	if len(p.PassThrough) > 0 {
		out.PassThrough = slices.Clone(p.PassThrough)
	}
	if len(p.ComputeProductCodes) > 0 {
		out.ComputeProductCodes = slices.Clone(p.ComputeProductCodes)
	}
	if len(p.ExcludeServices) > 0 {
		out.ExcludeServices = slices.Clone(p.ExcludeServices)
	}
	return out
}

// Validate checks the values the profile sets.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("missing profile name")
	}
	neutral := model.Params{PassThrough: []float64{1}}
	if _, err := engine.ValidateParams(p.Apply(neutral)); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

// LoadProfile reads a YAML profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file %s: %w", path, err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile file %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile parses and validates YAML profile data.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
