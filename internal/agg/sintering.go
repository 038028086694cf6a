package agg

import (
	"fmt"

	"github.com/san-kum/aglogen/internal/rng"
)

// SinterMode selects how the sintering coefficient is drawn per contact.
type SinterMode string

const (
	// SinterNone places particles at exact touch (coefficient 1).
	SinterNone SinterMode = "none"
	// SinterFixed applies one coefficient to every contact.
	SinterFixed SinterMode = "fixed"
	// SinterUniform draws the coefficient uniformly from [Min, Max].
	SinterUniform SinterMode = "uniform"
	// SinterNormal draws from N(Mean, Std) clamped to [0.5, 1.0].
	SinterNormal SinterMode = "normal"
)

// Sintering describes the neck-overlap model: the center distance at
// adhesion is coefficient*(ri+rj), with coefficient in (0, 1].
type Sintering struct {
	Mode        SinterMode `yaml:"mode" json:"mode"`
	Coefficient float64    `yaml:"coefficient,omitempty" json:"coefficient,omitempty"`
	Min         float64    `yaml:"min,omitempty" json:"min,omitempty"`
	Max         float64    `yaml:"max,omitempty" json:"max,omitempty"`
	Mean        float64    `yaml:"mean,omitempty" json:"mean,omitempty"`
	Std         float64    `yaml:"std,omitempty" json:"std,omitempty"`
}

// NoSintering places every contact at exact touch.
func NoSintering() Sintering {
	return Sintering{Mode: SinterNone}
}

// FixedSintering applies one overlap coefficient to all contacts.
func FixedSintering(coeff float64) Sintering {
	return Sintering{Mode: SinterFixed, Coefficient: coeff}
}

// sample draws the coefficient for one contact.
func (s Sintering) sample(rs *rng.Stream) float64 {
	switch s.Mode {
	case SinterFixed:
		return s.Coefficient
	case SinterUniform:
		return rs.Range(s.Min, s.Max)
	case SinterNormal:
		return rs.NormalClamped(s.Mean, s.Std, 0.5, 1.0)
	default:
		return 1
	}
}

func (s Sintering) validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: sintering: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
	}
	switch s.Mode {
	case SinterNone:
		return nil
	case SinterFixed:
		if s.Coefficient <= 0 || s.Coefficient > 1 {
			return bad("coefficient must be in (0, 1], got %g", s.Coefficient)
		}
	case SinterUniform:
		if s.Min <= 0 || s.Max > 1 || s.Min > s.Max {
			return bad("uniform bounds [%g, %g] must satisfy 0 < min <= max <= 1", s.Min, s.Max)
		}
	case SinterNormal:
		if s.Mean <= 0 || s.Mean > 1 {
			return bad("mean must be in (0, 1], got %g", s.Mean)
		}
		if s.Std < 0 {
			return bad("std must be non-negative, got %g", s.Std)
		}
	default:
		return bad("unknown mode %q", s.Mode)
	}
	return nil
}
