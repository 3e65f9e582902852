package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithDefine is an option builder that appends a define to the material.
// A define with the same name replaces the earlier one in place.
//
// Parameters:
//   - d: the define to add
//
// Returns:
//   - MaterialBuilderOption: a function that applies the define option to a material
func WithDefine(d Define) MaterialBuilderOption {
	return func(m *material) {
		for i := range m.defines {
			if m.defines[i].Name == d.Name {
				m.defines[i] = d
				return
			}
		}
		m.defines = append(m.defines, d)
	}
}

// WithDefines is an option builder that appends several defines in order.
//
// Parameters:
//   - defines: the defines to add
//
// Returns:
//   - MaterialBuilderOption: a function that applies the defines option to a material
func WithDefines(defines ...Define) MaterialBuilderOption {
	return func(m *material) {
		for _, d := range defines {
			WithDefine(d)(m)
		}
	}
}
