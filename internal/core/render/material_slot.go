package render

import "github.com/hexaengine/hexa/internal/core/asset"

type materialSlot struct {
	material *asset.Material
}

func (m *MeshInstance) MaterialCount() int { return len(m.materials) }

// Material returns the material bound to slot, or nil.
func (m *MeshInstance) Material(slot int) *asset.Material {
	if slot < 0 || slot >= len(m.materials) {
		return nil
	}
	return m.materials[slot].material
}

func (m *MeshInstance) SetMaterial(slot int, material *asset.Material) bool {
	if slot < 0 || slot >= len(m.materials) {
		return false
	}
	m.materials[slot].material = material
	return true
}
