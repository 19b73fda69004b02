package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type plane struct {
	a, b, c, d float32
}

// Frustum holds the six clip planes in order: left, right, bottom, top, near, far.
type Frustum [6]plane

// NewFrustum builds the planes from the combined projection*view matrix.
func NewFrustum(clip mgl32.Mat4) Frustum {
	// mgl32 matrices are column-major.
	row := func(i int) [4]float32 {
		return [4]float32{clip[i], clip[i+4], clip[i+8], clip[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	add := func(a, b [4]float32) plane { return plane{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]} }
	sub := func(a, b [4]float32) plane { return plane{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]} }

	return Frustum{
		normalizePlane(add(r3, r0)),
		normalizePlane(sub(r3, r0)),
		normalizePlane(add(r3, r1)),
		normalizePlane(sub(r3, r1)),
		normalizePlane(add(r3, r2)),
		normalizePlane(sub(r3, r2)),
	}
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// ContainsAABB reports whether the box touches the frustum, inflated by margin.
func (f *Frustum) ContainsAABB(min, max mgl32.Vec3, margin float32) bool {
	for _, p := range f {
		// Positive vertex for this plane normal.
		px := max.X() + margin
		if p.a < 0 {
			px = min.X() - margin
		}
		py := max.Y() + margin
		if p.b < 0 {
			py = min.Y() - margin
		}
		pz := max.Z() + margin
		if p.c < 0 {
			pz = min.Z() - margin
		}
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}
