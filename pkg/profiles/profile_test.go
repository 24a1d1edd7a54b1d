package profiles_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/engine"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

func writeProfile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "conservative.yaml", `
name: conservative
description: Low commitment, cautious spot
compute_product_codes: [AmazonEC2, AWSLambda]
additional_coverage: 0.2
spot_discount: 0.5
pass_through: [0.3, 0.5]
`)

	p, err := profiles.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "conservative", p.Name)
	require.NotNil(t, p.AdditionalCoverage)
	assert.Equal(t, 0.2, *p.AdditionalCoverage)
	require.NotNil(t, p.SpotDiscount)
	assert.Equal(t, 0.5, *p.SpotDiscount)
	assert.Equal(t, []float64{0.3, 0.5}, p.PassThrough)
	assert.Equal(t, []string{"AmazonEC2", "AWSLambda"}, p.ComputeProductCodes)
}

func TestLoadProfile_FileNotFound(t *testing.T) {
	_, err := profiles.LoadProfile("/nonexistent/profile.yaml")
	assert.Error(t, err)
}

func TestLoadProfile_InvalidYAML(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "bad.yaml", "name: [oops")
	_, err := profiles.LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfile_MissingName(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "noname.yaml", "spot_discount: 0.4\n")
	_, err := profiles.LoadProfile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing profile name")
}

func TestLoadProfile_OutOfRange(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "greedy.yaml", "name: greedy\nspot_discount: 0.99\n")
	_, err := profiles.LoadProfile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInvalidParams))
	assert.Contains(t, err.Error(), "spot_discount")
}

func TestProfile_Apply(t *testing.T) {
	base := model.Params{
		AdditionalCoverage: 0.3,
		SpotDiscount:       0.6,
		PassThrough:        []float64{0.5, 1},
		ExcludeServices:    []string{"tax"},
	}

	p, err := profiles.ParseProfile([]byte("name: spot-heavy\nspot_discount: 0.7\n"))
	require.NoError(t, err)

	got := p.Apply(base)
	assert.Equal(t, 0.3, got.AdditionalCoverage)
	assert.Equal(t, 0.7, got.SpotDiscount)
	assert.Equal(t, []float64{0.5, 1}, got.PassThrough)
	assert.Equal(t, []string{"tax"}, got.ExcludeServices)
	assert.Equal(t, 0.6, base.SpotDiscount)
}

func TestDefault(t *testing.T) {
	base := model.Params{AdditionalCoverage: 0.3, SpotDiscount: 0.6, PassThrough: []float64{0.5}}
	p := profiles.Default(base)

	assert.Equal(t, profiles.DefaultName, p.Name)
	assert.NoError(t, p.Validate())
	assert.Equal(t, base, p.Apply(model.Params{}))
}
