package material

import (
	"strconv"
	"strings"
)

// DefineKind identifies the payload carried by a Define.
type DefineKind int

const (
	// DefineScalar carries a single float.
	DefineScalar DefineKind = iota
	// DefineVector carries 2 to 4 floats.
	DefineVector
	// DefineTexture carries the registry name of a texture binding.
	DefineTexture
	// DefineFlag carries no value; its presence is the information.
	DefineFlag
)

// Define is one named shader define emitted by a material.
type Define struct {
	Name    string
	Kind    DefineKind
	Values  []float32
	Uniform string
}

// Flag creates a valueless define.
func Flag(name string) Define {
	return Define{Name: name, Kind: DefineFlag}
}

// Scalar creates a scalar define.
func Scalar(name string, v float32) Define {
	return Define{Name: name, Kind: DefineScalar, Values: []float32{v}}
}

// Vector creates a vector define from 2 to 4 components.
// Extra components are dropped; a single component yields a scalar.
func Vector(name string, v ...float32) Define {
	switch {
	case len(v) == 1:
		return Scalar(name, v[0])
	case len(v) > 4:
		v = v[:4]
	}
	return Define{Name: name, Kind: DefineVector, Values: append([]float32(nil), v...)}
}

// TextureBinding creates a define naming the registered texture uniform it samples.
func TextureBinding(name, uniform string) Define {
	return Define{Name: name, Kind: DefineTexture, Uniform: uniform}
}

// Float returns the first component of a scalar or vector define.
func (d Define) Float() float32 {
	if len(d.Values) == 0 {
		return 0
	}
	return d.Values[0]
}

// String formats the define the way it would appear in generated shader source,
// e.g. "MATERIAL_BASECOLOR vec4(1.0, 1.0, 1.0, 1.0)" or "MATERIAL_BASECOLORMAP brick_png".
func (d Define) String() string {
	switch d.Kind {
	case DefineFlag:
		return d.Name
	case DefineTexture:
		return d.Name + " " + d.Uniform
	case DefineVector:
		parts := make([]string, len(d.Values))
		for i, v := range d.Values {
			parts[i] = formatFloat(v)
		}
		return d.Name + " vec" + strconv.Itoa(len(d.Values)) + "(" + strings.Join(parts, ", ") + ")"
	default:
		return d.Name + " " + formatFloat(d.Float())
	}
}

// formatFloat renders v as a float literal. Whole numbers keep a ".0" so GLSL ES
// does not read them as ints.
func formatFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
