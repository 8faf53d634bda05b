package geodetic

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Frame is a local render frame anchored at an ECEF origin. Render space
// convention: +X east, +Y north, +Z up, origin at the frame's ECEF origin.
//
// RenderOffset is a running correction for content still cached in the
// render coordinates the offset accumulation started from: cached
// coordinates plus the offset line up with coordinates freshly derived
// against this frame, so caches survive a rebase (floating-origin
// technique). Freshly derived ToLocal results never add the offset.
type Frame struct {
	Origin mgl64.Vec3 // ECEF meters

	East  mgl64.Vec3
	North mgl64.Vec3
	Up    mgl64.Vec3

	LocalToECEF mgl64.Mat4
	ECEFToLocal mgl64.Mat4

	RenderOffset mgl64.Vec3
}

// NewFrame builds a local ENU frame at the given ECEF origin.
func NewFrame(originECEF mgl64.Vec3) *Frame {
	g := FromECEF(originECEF)
	east, north, up := ENUBasis(g.Lat, g.Lon)

	f := &Frame{
		Origin: originECEF,
		East:   east,
		North:  north,
		Up:     up,
	}

	// Column-major affine: columns are the ENU axes plus the origin.
	f.LocalToECEF = mgl64.Mat4{
		east.X(), east.Y(), east.Z(), 0,
		north.X(), north.Y(), north.Z(), 0,
		up.X(), up.Y(), up.Z(), 0,
		originECEF.X(), originECEF.Y(), originECEF.Z(), 1,
	}

	// Rigid inverse: transposed rotation, origin rotated back.
	ox := -east.Dot(originECEF)
	oy := -north.Dot(originECEF)
	oz := -up.Dot(originECEF)
	f.ECEFToLocal = mgl64.Mat4{
		east.X(), north.X(), up.X(), 0,
		east.Y(), north.Y(), up.Y(), 0,
		east.Z(), north.Z(), up.Z(), 0,
		ox, oy, oz, 1,
	}

	return f
}

// ToLocal converts an ECEF point into this frame's render space.
func (f *Frame) ToLocal(ecef mgl64.Vec3) mgl64.Vec3 {
	return f.ECEFToLocal.Mul4x1(ecef.Vec4(1)).Vec3()
}

// ToECEF converts a render-space point into ECEF.
func (f *Frame) ToECEF(local mgl64.Vec3) mgl64.Vec3 {
	return f.LocalToECEF.Mul4x1(local.Vec4(1)).Vec3()
}

// Rebase recreates the frame with its ECEF origin moved by delta, where
// delta is expressed in this frame's (old) ENU basis. The render offset is
// advanced by the negated delta, matching the shift that new-frame ToLocal
// applies to every point, so content cached in old render coordinates plus
// the offset still lines up with freshly derived coordinates.
func (f *Frame) Rebase(delta mgl64.Vec3) *Frame {
	newOrigin := f.Origin.
		Add(f.East.Mul(delta.X())).
		Add(f.North.Mul(delta.Y())).
		Add(f.Up.Mul(delta.Z()))

	next := NewFrame(newOrigin)
	next.RenderOffset = f.RenderOffset.Sub(delta)
	return next
}
