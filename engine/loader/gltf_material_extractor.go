package loader

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// flattenMaterial converts a document material into a name plus ordered defines,
// registering every referenced texture in the load's Uniforms registry.
// Each factor is followed by the binding of the texture it modulates. Textures
// whose image cannot be resolved are logged and left unbound, together with
// their scale and strength defines.
//
// Parameters:
//   - ctx: the load context holding the document and registry
//   - index: the material index
//
// Returns:
//   - material.Material: the flattened material
//   - error: error if the material or a texture index is out of range
func flattenMaterial(ctx *loadContext, index int) (material.Material, error) {
	if index < 0 || index >= len(ctx.doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", index)
	}
	mat := ctx.doc.Materials[index]
	name := normalizeName(mat.Name, index)

	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		pbr = &gltf.PBRMetallicRoughness{}
	}

	defines := []material.Define{material.UniquenessDefine(name)}
	var bindErr error
	bind := func(define string, textureIndex *int) bool {
		if bindErr != nil || textureIndex == nil {
			return false
		}
		uniform, ok, err := bindTexture(ctx, *textureIndex)
		if err != nil {
			bindErr = fmt.Errorf("material %q: %s: %w", name, strings.ToLower(define), err)
			return false
		}
		if ok {
			ctx.soft("texture bound", zap.String("material", name), zap.String("define", define), zap.String("uniform", uniform))
			defines = append(defines, material.TextureBinding(define, uniform))
		}
		return ok
	}

	baseColor := pbr.BaseColorFactorOrDefault()
	defines = append(defines, material.Vector(material.BaseColor,
		float32(baseColor[0]), float32(baseColor[1]), float32(baseColor[2]), float32(baseColor[3])))
	if pbr.BaseColorTexture != nil {
		bind(material.BaseColorMap, &pbr.BaseColorTexture.Index)
	}

	defines = append(defines, material.Vector(material.Emissive,
		float32(mat.EmissiveFactor[0]), float32(mat.EmissiveFactor[1]), float32(mat.EmissiveFactor[2])))
	if mat.EmissiveTexture != nil {
		bind(material.EmissiveMap, &mat.EmissiveTexture.Index)
	}

	defines = append(defines,
		material.Scalar(material.Roughness, float32(pbr.RoughnessFactorOrDefault())),
		material.Scalar(material.Metallic, float32(pbr.MetallicFactorOrDefault())),
	)
	if pbr.MetallicRoughnessTexture != nil {
		bind(material.MetallicRoughnessMap, &pbr.MetallicRoughnessTexture.Index)
	}

	if nt := mat.NormalTexture; nt != nil && bind(material.NormalMap, nt.Index) {
		if scale := float32(nt.ScaleOrDefault()); scale != 1 {
			defines = append(defines, material.Vector(material.NormalMapScale, scale, scale, 1))
		}
	}
	if ot := mat.OcclusionTexture; ot != nil && bind(material.OcclusionMap, ot.Index) {
		if strength := float32(ot.StrengthOrDefault()); strength != 1 {
			defines = append(defines, material.Scalar(material.OcclusionMapStrength, strength))
		}
	}
	if bindErr != nil {
		return nil, bindErr
	}

	switch mat.AlphaMode {
	case gltf.AlphaMask:
		defines = append(defines, material.Scalar(material.AlphaCutoff, float32(mat.AlphaCutoffOrDefault())))
	case gltf.AlphaBlend:
		defines = append(defines, material.Flag(material.AlphaBlend))
	}
	if mat.DoubleSided {
		defines = append(defines, material.Flag(material.DoubleSided))
	}

	return material.NewMaterial(material.WithName(name), material.WithDefines(defines...)), nil
}

// bindTexture builds a texture resource for a document texture and offers it to the
// registry. A rejected candidate is discarded and the registered resource stays
// authoritative; either way the returned uniform name is the one to bind.
//
// Parameters:
//   - ctx: the load context
//   - textureIndex: the document texture index
//
// Returns:
//   - string: the registered uniform name
//   - bool: false when the texture has no usable image and must not be bound
//   - error: error if the texture or image index is out of range
func bindTexture(ctx *loadContext, textureIndex int) (string, bool, error) {
	doc := ctx.doc
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return "", false, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := doc.Textures[textureIndex]
	if tex.Source == nil {
		ctx.soft("texture has no image source", zap.Int("texture", textureIndex))
		return "", false, nil
	}

	imageIndex := *tex.Source
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return "", false, fmt.Errorf("image index %d out of range", imageIndex)
	}
	img := doc.Images[imageIndex]

	texName := gltfTextureName(img, imageIndex)
	uniform := uniformName(texName)

	pixels, err := decodeImage(ctx, imageIndex)
	if err != nil {
		ctx.log.Warn("texture left unbound", zap.String("texture", texName), zap.Error(err))
		return "", false, nil
	}

	sampler := common.DefaultSamplerStagingData()
	if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(doc.Samplers) {
		sampler = gltfSamplerToStagingData(doc.Samplers[*tex.Sampler])
	}

	candidate := material.NewTexture(texName, common.TextureStagingData{
		Pixels:   pixels.Data,
		Width:    uint32(pixels.Width),
		Height:   uint32(pixels.Height),
		Channels: uint32(pixels.Channels),
		BitDepth: uint32(pixels.BitDepth),
	}, sampler)
	if !ctx.uniforms.Register(uniform, candidate) {
		ctx.log.Debug("texture already registered", zap.String("uniform", uniform))
	}
	return uniform, true, nil
}

// gltfTextureName derives the registry identity of an image: its name followed by its URI.
// Inline data URIs carry no identity. Anonymous images are named by index, which is
// stable for the whole document.
func gltfTextureName(img *gltf.Image, imageIndex int) string {
	src := img.URI
	if strings.HasPrefix(src, "data:") {
		src = ""
	}
	if name := img.Name + src; name != "" {
		return name
	}
	return fmt.Sprintf("image_%d", imageIndex)
}

// normalizeName lower-cases a material name and folds whitespace and punctuation
// runs into single underscores. Non-ASCII characters are dropped. An empty
// result falls back to material_<index>.
func normalizeName(name string, index int) string {
	var b strings.Builder
	pending := false
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r = unicode.ToLower(r)
		case r == '_' || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			pending = b.Len() > 0
			continue
		default:
			continue
		}
		if pending {
			b.WriteByte('_')
			pending = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return fmt.Sprintf("material_%d", index)
	}
	return b.String()
}

// uniformName sanitizes a texture name into an identifier made of [A-Za-z0-9_].
// Names that would start with a digit get a tex_ prefix.
func uniformName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "tex_" + out
	}
	return out
}

// decodeImage returns the decoded pixels of an image, decoding each image once per load.
func decodeImage(ctx *loadContext, imageIndex int) (*imageio.Pixels, error) {
	if px, ok := ctx.images[imageIndex]; ok {
		return px, nil
	}

	data, err := readImageBytes(ctx, ctx.doc.Images[imageIndex])
	if err != nil {
		return nil, err
	}
	px, err := ctx.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if ctx.flipTextures {
		imageio.FlipVertical(px.Data, px.Width, px.Height, px.Channels*px.BitDepth/8)
	}
	ctx.images[imageIndex] = px
	return px, nil
}

// readImageBytes loads the encoded bytes of an image from a buffer view (GLB),
// a base64 data URI or an external file relative to the document.
func readImageBytes(ctx *loadContext, img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		data, err := readBufferView(ctx.doc, *img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("failed to read image buffer view: %w", err)
		}
		return data, nil
	}

	if strings.HasPrefix(img.URI, "data:") {
		data, _, err := gltfDecodeDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		return data, nil
	}

	if img.URI == "" {
		return nil, fmt.Errorf("image %q has no source", img.Name)
	}
	rel, err := url.PathUnescape(img.URI)
	if err != nil {
		rel = img.URI
	}
	data, err := os.ReadFile(filepath.Join(ctx.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// gltfDecodeDataURI decodes a base64 data URI into raw bytes and extracts the MIME type.
func gltfDecodeDataURI(uri string) ([]byte, string, error) {
	// Format: data:[<mediatype>][;base64],<data>
	header, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: no comma found")
	}

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		data, err := url.PathUnescape(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("failed to unescape data URI: %w", err)
		}
		return []byte(data), mimeType, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mimeType, nil
}

// gltfSamplerToStagingData converts a glTF sampler definition into SamplerStagingData.
// Unset fields fall back to the glTF defaults (linear filtering, repeat wrapping).
//
// Parameters:
//   - s: the glTF sampler to convert
//
// Returns:
//   - common.SamplerStagingData: the converted sampler staging data
func gltfSamplerToStagingData(s *gltf.Sampler) common.SamplerStagingData {
	result := common.DefaultSamplerStagingData()

	switch s.MagFilter {
	case gltf.MagNearest:
		result.MagFilter = wgpu.FilterModeNearest
	case gltf.MagLinear:
		result.MagFilter = wgpu.FilterModeLinear
	}

	switch s.MinFilter {
	case gltf.MinNearest:
		result.MinFilter = wgpu.FilterModeNearest
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case gltf.MinLinear:
		result.MinFilter = wgpu.FilterModeLinear
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case gltf.MinNearestMipMapNearest:
		result.MinFilter = wgpu.FilterModeNearest
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case gltf.MinLinearMipMapNearest:
		result.MinFilter = wgpu.FilterModeLinear
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case gltf.MinNearestMipMapLinear:
		result.MinFilter = wgpu.FilterModeNearest
		result.MipmapFilter = wgpu.MipmapFilterModeLinear
	case gltf.MinLinearMipMapLinear:
		result.MinFilter = wgpu.FilterModeLinear
		result.MipmapFilter = wgpu.MipmapFilterModeLinear
	}

	result.AddressModeU = gltfWrapToAddressMode(s.WrapS)
	result.AddressModeV = gltfWrapToAddressMode(s.WrapT)
	return result
}

// gltfWrapToAddressMode converts a glTF wrap mode to a wgpu AddressMode.
//
// Parameters:
//   - wrap: the glTF wrap mode
//
// Returns:
//   - wgpu.AddressMode: the corresponding wgpu address mode
func gltfWrapToAddressMode(wrap gltf.WrappingMode) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
