package analysis

import (
	"fmt"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

// ResolveParams layers the named profile and then the explicit overrides on
// top of the configured defaults. An empty profile name selects none.
func ResolveParams(defaults model.Params, registry *profiles.Registry, profile string, overrides *profiles.Profile) (model.Params, error) {
	params := defaults
	if profile != "" && registry != nil {
		p, err := registry.Get(profile)
		if err != nil {
			return model.Params{}, fmt.Errorf("resolve profile: %w", err)
		}
		params = p.Apply(params)
	}
	if overrides != nil {
		params = overrides.Apply(params)
	}
	return params, nil
}
