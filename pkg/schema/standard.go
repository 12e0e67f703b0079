package schema

// Parameter is one regulated quantity within a standard.
type Parameter struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Unit  string    `json:"unit" yaml:"unit"`
	Limit float64   `json:"limit" yaml:"limit"`
	Type  LimitType `json:"type" yaml:"type" jsonschema:"enum=max,enum=min"`
}

// Standard is a named, ordered set of regulated parameters.
type Standard struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Category    Category    `json:"category" yaml:"category" jsonschema:"enum=Water,enum=Air,enum=Soil"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
}

// Clone returns a deep copy of the standard.
func (s Standard) Clone() Standard {
	clone := s
	clone.Parameters = make([]Parameter, len(s.Parameters))
	copy(clone.Parameters, s.Parameters)
	return clone
}

// FindStandard returns the standard with the given id.
func FindStandard(standards []Standard, id string) (Standard, bool) {
	for _, s := range standards {
		if s.ID == id {
			return s, true
		}
	}
	return Standard{}, false
}
