package engine

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Parameter names reported by ValidationError.
const (
	ParamAdditionalCoverage = "additional_coverage"
	ParamSpotDiscount       = "spot_discount"
	ParamPassThrough        = "pass_through"
	ParamRows               = "rows"
)

// MaxSpotDiscount is the largest accepted spot discount.
const MaxSpotDiscount = 0.95

var (
	// ErrInvalidParams is wrapped by every parameter validation failure.
	ErrInvalidParams = errors.New("invalid scenario parameters")
	// ErrNoRows is returned when there is nothing to aggregate.
	ErrNoRows = errors.New("no billing rows")
)

// ValidationError names the parameter that was rejected.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Param, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}

// ValidateParams checks the scenario parameters and returns a normalized copy:
// pass-through fractions outside (0,1] are dropped and an empty compute set is
// replaced by the defaults.
func ValidateParams(p model.Params) (model.Params, error) {
	if math.IsNaN(p.AdditionalCoverage) || p.AdditionalCoverage < 0 || p.AdditionalCoverage > 1 {
		return p, &ValidationError{
			Param:  ParamAdditionalCoverage,
			Value:  p.AdditionalCoverage,
			Reason: "must be within [0, 1]",
		}
	}
	if math.IsNaN(p.SpotDiscount) || p.SpotDiscount < 0 || p.SpotDiscount > MaxSpotDiscount {
		return p, &ValidationError{
			Param:  ParamSpotDiscount,
			Value:  p.SpotDiscount,
			Reason: fmt.Sprintf("must be within [0, %g]", MaxSpotDiscount),
		}
	}

	kept := make([]float64, 0, len(p.PassThrough))
	for _, pt := range p.PassThrough {
		if pt > 0 && pt <= 1 {
			kept = append(kept, pt)
		}
	}
	if len(kept) == 0 {
		return p, &ValidationError{
			Param:  ParamPassThrough,
			Value:  p.PassThrough,
			Reason: "needs at least one fraction within (0, 1]",
		}
	}

	out := p
	out.PassThrough = kept
	if len(p.ComputeProductCodes) == 0 {
		out.ComputeProductCodes = cur.DefaultComputeProductCodes()
	} else {
		out.ComputeProductCodes = slices.Clone(p.ComputeProductCodes)
	}
	out.ExcludeServices = slices.Clone(p.ExcludeServices)
	return out, nil
}
