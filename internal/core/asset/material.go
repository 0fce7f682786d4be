package asset

import (
	"encoding/json"
	"fmt"
)

type Filter uint8

const (
	FilterNone Filter = iota
	FilterBilinear
	FilterTrilinear
	FilterAnisotropic
)

// ParseFilter maps a .mat filtering value; unknown values mean no filtering.
func ParseFilter(s string) Filter {
	switch s {
	case "bilinear":
		return FilterBilinear
	case "trilinear":
		return FilterTrilinear
	case "anisotropic":
		return FilterAnisotropic
	default:
		return FilterNone
	}
}

func (f Filter) String() string {
	switch f {
	case FilterBilinear:
		return "bilinear"
	case FilterTrilinear:
		return "trilinear"
	case FilterAnisotropic:
		return "anisotropic"
	default:
		return ""
	}
}

// MaterialDescriptor is the .mat file layout.
type MaterialDescriptor struct {
	Vertex   string              `json:"vertex"`
	Fragment string              `json:"fragment"`
	Textures []TextureDescriptor `json:"textures,omitempty"`
}

type TextureDescriptor struct {
	Default   string `json:"default,omitempty"`
	Filtering string `json:"filtering,omitempty"`
}

func ParseMaterialDescriptor(data []byte) (MaterialDescriptor, error) {
	var desc MaterialDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return MaterialDescriptor{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return desc, nil
}

// Material binds a vertex and fragment program with a list of texture units.
type Material struct {
	id       ID
	desc     MaterialDescriptor
	vertex   *Shader
	fragment *Shader
	textures []*Texture
	filters  []Filter
	fallback func() *Texture
}

func (m *Material) ID() ID { return m.id }

// Descriptor returns the descriptor the material was built from.
func (m *Material) Descriptor() MaterialDescriptor { return m.desc }

func (m *Material) Vertex() *Shader { return m.vertex }

func (m *Material) Fragment() *Shader { return m.fragment }

func (m *Material) TextureCount() int { return len(m.textures) }

// Texture returns the texture bound to unit index, or nil.
func (m *Material) Texture(index int) *Texture {
	if index < 0 || index >= len(m.textures) {
		return nil
	}
	return m.textures[index]
}

func (m *Material) Filter(index int) Filter {
	if index < 0 || index >= len(m.filters) {
		return FilterNone
	}
	return m.filters[index]
}

// SetTexture binds t to unit index. A nil texture binds the uv test texture.
// Out of range indices are ignored.
func (m *Material) SetTexture(t *Texture, index int) {
	if index < 0 || index >= len(m.textures) {
		return
	}
	if t == nil && m.fallback != nil {
		t = m.fallback()
	}
	m.textures[index] = t
}

// Instanced reports whether either program has an instancing variant.
func (m *Material) Instanced() bool {
	return m.vertex.HasInstanced() || m.fragment.HasInstanced()
}
