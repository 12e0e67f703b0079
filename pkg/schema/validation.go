package schema

import (
	"fmt"
	"math"
)

// ValidateStandard validates a standard and all of its parameters.
func ValidateStandard(s *Standard) error {
	if s.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(s.Name) < StandardNameMin || len(s.Name) > StandardNameMax {
		return fmt.Errorf("name must be %d-%d characters", StandardNameMin, StandardNameMax)
	}
	if len(s.Description) > StandardDescriptionMax {
		return fmt.Errorf("description must be at most %d characters", StandardDescriptionMax)
	}

	switch s.Category {
	case CategoryWater, CategoryAir, CategorySoil:
		// Valid
	default:
		return fmt.Errorf("invalid category: %s", s.Category)
	}

	if len(s.Parameters) > ParametersMax {
		return fmt.Errorf("must have at most %d parameters", ParametersMax)
	}

	seen := make(map[string]bool, len(s.Parameters))
	for i := range s.Parameters {
		p := &s.Parameters[i]
		if err := ValidateParameter(p); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate parameter id: %s", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}

// ValidateParameter validates a single regulated parameter.
func ValidateParameter(p *Parameter) error {
	if len(p.ID) < ParameterIDMin || len(p.ID) > ParameterIDMax {
		return fmt.Errorf("id must be %d-%d characters", ParameterIDMin, ParameterIDMax)
	}
	if p.Name == "" || len(p.Name) > ParameterNameMax {
		return fmt.Errorf("name must be 1-%d characters", ParameterNameMax)
	}

	switch p.Type {
	case LimitMax, LimitMin:
		// Valid
	default:
		return fmt.Errorf("invalid limit type: %s", p.Type)
	}

	if math.IsNaN(p.Limit) || math.IsInf(p.Limit, 0) || p.Limit < 0 {
		return fmt.Errorf("limit must be a finite non-negative number")
	}

	return nil
}

// ValidateSampleCount checks that n sample columns fit a seed header.
func ValidateSampleCount(n int) error {
	if n < SampleCountMin || n > SampleCountMax {
		return fmt.Errorf("sample count must be %d-%d", SampleCountMin, SampleCountMax)
	}
	return nil
}
