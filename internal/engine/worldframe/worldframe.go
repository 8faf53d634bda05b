// Package worldframe defines what "up" means at any point in the scene.
// The fixed variant is the ordinary flat-scene case; the radial variant
// supports globe-relative scenes where up points away from the scene origin.
package worldframe

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// Basis is a right-handed, mutually orthogonal unit frame at a point.
type Basis struct {
	Right   mgl64.Vec3
	Up      mgl64.Vec3
	Forward mgl64.Vec3
}

// Frame answers spatial-reference queries at arbitrary focus points.
// Implementations are stateless and safe to call from any component.
type Frame interface {
	// UpAt returns the unit up axis at point.
	UpAt(point mgl64.Vec3) mgl64.Vec3

	// BasisAt returns a right-handed orthonormal basis at point.
	BasisAt(point mgl64.Vec3) Basis

	// PivotPlaneAt returns the plane through point with normal UpAt(point).
	PivotPlaneAt(point mgl64.Vec3) geom.Plane
}

// Fixed is a frame with a constant vertical axis everywhere.
type Fixed struct {
	up mgl64.Vec3
}

// NewFixed returns a fixed frame with the given up axis (normalized).
// A zero axis falls back to +Z, the render-space vertical.
func NewFixed(up mgl64.Vec3) *Fixed {
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 0, 1}
	}
	return &Fixed{up: up.Normalize()}
}

func (f *Fixed) UpAt(mgl64.Vec3) mgl64.Vec3 {
	return f.up
}

func (f *Fixed) BasisAt(point mgl64.Vec3) Basis {
	return deriveBasis(f.up, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
}

func (f *Fixed) PivotPlaneAt(point mgl64.Vec3) geom.Plane {
	return geom.NewPlane(point, f.up)
}

// Radial is a globe-relative frame: up points from the scene center toward
// the query point, and right/forward are derived from a fixed reference
// axis so that "north" stays consistent across the globe.
type Radial struct {
	center    mgl64.Vec3
	reference mgl64.Vec3 // primary axis the basis is derived from
	fallback  mgl64.Vec3 // used when reference is parallel to up
}

// NewRadial returns a radial frame centered at center. The reference axis
// plays the role of the pole (+Z by convention); the fallback axis takes
// over at the poles themselves.
func NewRadial(center mgl64.Vec3) *Radial {
	return &Radial{
		center:    center,
		reference: mgl64.Vec3{0, 0, 1},
		fallback:  mgl64.Vec3{1, 0, 0},
	}
}

func (r *Radial) UpAt(point mgl64.Vec3) mgl64.Vec3 {
	d := point.Sub(r.center)
	if d.Len() == 0 {
		return r.reference
	}
	return d.Normalize()
}

func (r *Radial) BasisAt(point mgl64.Vec3) Basis {
	return deriveBasis(r.UpAt(point), r.reference, r.fallback)
}

func (r *Radial) PivotPlaneAt(point mgl64.Vec3) geom.Plane {
	return geom.NewPlane(point, r.UpAt(point))
}

// parallelThreshold rejects a reference axis whose cross product with up is
// too short to normalize reliably.
const parallelThreshold = 1e-6

// deriveBasis builds an east/north-style basis: right = reference x up,
// forward = up x right. Falls back to the secondary reference when the
// primary is parallel to up.
func deriveBasis(up, reference, fallback mgl64.Vec3) Basis {
	right := reference.Cross(up)
	if right.Len() < parallelThreshold {
		right = fallback.Cross(up)
	}
	right = right.Normalize()
	forward := up.Cross(right)
	return Basis{Right: right, Up: up, Forward: forward}
}
