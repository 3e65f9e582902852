package material

import "strings"

// Names of the defines a flattened material can carry.
const (
	BaseColor            = "MATERIAL_BASECOLOR"
	Emissive             = "MATERIAL_EMISSIVE"
	Roughness            = "MATERIAL_ROUGHNESS"
	Metallic             = "MATERIAL_METALLIC"
	BaseColorMap         = "MATERIAL_BASECOLORMAP"
	EmissiveMap          = "MATERIAL_EMISSIVEMAP"
	MetallicRoughnessMap = "MATERIAL_METALLICROUGHNESSMAP"
	NormalMap            = "MATERIAL_NORMALMAP"
	NormalMapScale       = "MATERIAL_NORMALMAP_SCALE"
	OcclusionMap         = "MATERIAL_OCCLUSIONMAP"
	OcclusionMapStrength = "MATERIAL_OCCLUSIONMAP_STRENGTH"
	AlphaCutoff          = "MATERIAL_ALPHACUTOFF"
	AlphaBlend           = "MATERIAL_ALPHABLEND"
	DoubleSided          = "MATERIAL_DOUBLESIDED"
	namePrefix           = "MATERIAL_NAME_"
)

// DefaultName is the name of the material used by primitives that reference none.
const DefaultName = "default"

// material is the implementation of the Material interface.
type material struct {
	name    string
	defines []Define
}

// Material defines the interface for a flattened surface description: a name plus
// an ordered list of shader defines. Texture defines reference resources held by
// the Uniforms registry of the same load.
type Material interface {
	// Name retrieves the normalized material name.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Defines retrieves the defines in emission order.
	//
	// Returns:
	//   - []Define: a copy of the define list
	Defines() []Define

	// Define looks up a define by name.
	//
	// Parameters:
	//   - name: the define name
	//
	// Returns:
	//   - Define: the define, zero if absent
	//   - bool: whether the define is present
	Define(name string) (Define, bool)

	// TextureBindings retrieves only the texture binding defines, in emission order.
	//
	// Returns:
	//   - []Define: the texture binding defines
	TextureBindings() []Define

	// Params packs the factor defines into the GPU uniform layout.
	//
	// Returns:
	//   - GPUMaterialParams: the packed factors
	Params() GPUMaterialParams
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewDefaultMaterial creates the material assigned to primitives without one:
// white base color, no emission, fully rough and fully metallic, matching the glTF defaults.
//
// Returns:
//   - Material: the default material
func NewDefaultMaterial() Material {
	return NewMaterial(
		WithName(DefaultName),
		WithDefine(UniquenessDefine(DefaultName)),
		WithDefine(Vector(BaseColor, 1, 1, 1, 1)),
		WithDefine(Vector(Emissive, 0, 0, 0)),
		WithDefine(Scalar(Roughness, 1)),
		WithDefine(Scalar(Metallic, 1)),
	)
}

// UniquenessDefine returns the MATERIAL_NAME_<NAME> flag identifying a material.
//
// Parameters:
//   - name: the normalized material name
//
// Returns:
//   - Define: the uniqueness define
func UniquenessDefine(name string) Define {
	return Flag(namePrefix + strings.ToUpper(name))
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Defines() []Define {
	return append([]Define(nil), m.defines...)
}

func (m *material) Define(name string) (Define, bool) {
	for _, d := range m.defines {
		if d.Name == name {
			return d, true
		}
	}
	return Define{}, false
}

func (m *material) TextureBindings() []Define {
	var out []Define
	for _, d := range m.defines {
		if d.Kind == DefineTexture {
			out = append(out, d)
		}
	}
	return out
}

func (m *material) Params() GPUMaterialParams {
	p := GPUMaterialParams{
		BaseColor:         [4]float32{1, 1, 1, 1},
		Roughness:         1,
		Metallic:          1,
		NormalScale:       1,
		OcclusionStrength: 1,
	}
	if d, ok := m.Define(BaseColor); ok {
		copy(p.BaseColor[:], d.Values)
	}
	if d, ok := m.Define(Emissive); ok {
		copy(p.Emissive[:], d.Values)
	}
	if d, ok := m.Define(Roughness); ok {
		p.Roughness = d.Float()
	}
	if d, ok := m.Define(Metallic); ok {
		p.Metallic = d.Float()
	}
	if d, ok := m.Define(NormalMapScale); ok {
		p.NormalScale = d.Float()
	}
	if d, ok := m.Define(OcclusionMapStrength); ok {
		p.OcclusionStrength = d.Float()
	}
	if d, ok := m.Define(AlphaCutoff); ok {
		p.AlphaCutoff = d.Float()
	}
	return p
}
