package audio

import (
	"github.com/chewxy/math32"

	"github.com/hexaengine/hexa/pkg/vmath"
)

// Listener is the 3D ear, usually following the active camera.
type Listener struct {
	Position vmath.Vector3
	At       vmath.Vector3
	Up       vmath.Vector3
}

func defaultListener() Listener {
	return Listener{At: vmath.Vec3(0, 0, -1), Up: vmath.Up()}
}

// panFor returns -1 (left) to 1 (right) for a source at p.
func (l Listener) panFor(p vmath.Vector3) float32 {
	toSource := p.Sub(l.Position).Normalize()
	if toSource.IsZero() {
		return 0
	}
	right := l.At.Sub(l.Position).Cross(l.Up).Normalize()
	if right.IsZero() {
		return 0
	}
	return math32.Max(-1, math32.Min(1, toSource.Dot(right)))
}
