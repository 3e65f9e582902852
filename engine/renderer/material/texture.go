package material

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
)

// Texture is a decoded texture resource ready for GPU upload.
// It is owned by the Uniforms registry it was registered with.
type Texture struct {
	// Name is the identity used for registry deduplication.
	Name string
	// Staging holds the decoded pixels.
	Staging common.TextureStagingData
	// Sampler holds the sampling state the material requested.
	Sampler common.SamplerStagingData
}

// NewTexture creates a Texture from decoded pixels and sampler state.
//
// Parameters:
//   - name: the registry identity of the texture
//   - staging: the decoded pixel data
//   - sampler: the sampler configuration
//
// Returns:
//   - *Texture: the texture resource
func NewTexture(name string, staging common.TextureStagingData, sampler common.SamplerStagingData) *Texture {
	return &Texture{Name: name, Staging: staging, Sampler: sampler}
}
