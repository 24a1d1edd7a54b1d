package analysis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/analysis"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

func ptr(v float64) *float64 { return &v }

func TestResolveParams(t *testing.T) {
	defaults := model.Params{AdditionalCoverage: 0.3, SpotDiscount: 0.6, PassThrough: []float64{0.5, 1}}

	registry := profiles.NewRegistry()
	require.NoError(t, registry.Register(&profiles.Profile{
		Name:               "cautious",
		AdditionalCoverage: ptr(0.1),
		SpotDiscount:       ptr(0.4),
	}))

	tests := []struct {
		name      string
		profile   string
		overrides *profiles.Profile
		expected  model.Params
	}{
		{name: "defaults only", expected: defaults},
		{
			name:     "profile",
			profile:  "cautious",
			expected: model.Params{AdditionalCoverage: 0.1, SpotDiscount: 0.4, PassThrough: []float64{0.5, 1}},
		},
		{
			name:      "flags beat profile",
			profile:   "cautious",
			overrides: &profiles.Profile{SpotDiscount: ptr(0.7), PassThrough: []float64{0.2}},
			expected:  model.Params{AdditionalCoverage: 0.1, SpotDiscount: 0.7, PassThrough: []float64{0.2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analysis.ResolveParams(defaults, registry, tt.profile, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveParams_UnknownProfile(t *testing.T) {
	_, err := analysis.ResolveParams(model.Params{}, profiles.NewRegistry(), "missing", nil)
	assert.True(t, errors.Is(err, profiles.ErrNotFound))
}
