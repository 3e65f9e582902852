package material

import "sync"

// Uniforms is a name-keyed registry of texture resources shared by the materials of one load.
// The first texture registered under a name wins; later candidates are rejected.
type Uniforms struct {
	mu       sync.RWMutex
	textures map[string]*Texture
	order    []string
}

// NewUniforms creates an empty registry.
//
// Returns:
//   - *Uniforms: the registry
func NewUniforms() *Uniforms {
	return &Uniforms{textures: make(map[string]*Texture)}
}

// Register stores tex under name unless the name is already taken.
//
// Parameters:
//   - name: the uniform name
//   - tex: the candidate texture
//
// Returns:
//   - bool: true if the registry took ownership of tex, false if the name was already registered
func (u *Uniforms) Register(name string, tex *Texture) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.textures[name]; exists {
		return false
	}
	u.textures[name] = tex
	u.order = append(u.order, name)
	return true
}

// Get retrieves a registered texture.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - *Texture: the texture, or nil
//   - bool: whether the name is registered
func (u *Uniforms) Get(name string) (*Texture, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	tex, ok := u.textures[name]
	return tex, ok
}

// Len returns the number of registered textures.
func (u *Uniforms) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.order)
}

// Names returns the registered names in registration order.
func (u *Uniforms) Names() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]string(nil), u.order...)
}
