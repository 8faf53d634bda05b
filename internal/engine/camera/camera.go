// Package camera implements the orbit/pan/dolly camera rig: camera pose,
// projection-sync math, the animated perspective/orthographic transition,
// and default-view handling.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// Projection is the camera's projection kind.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera holds the full camera pose and projection parameters.
//
// Position is the orbit-consistent position: the point that actually
// orbits on a sphere around Target. The rendered eye position additionally
// carries FocalOffset, a camera-local displacement of the optical center
// that leaves the orbit pivot untouched (cursor-anchored operations).
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3 // orbit pivot
	Up       mgl64.Vec3 // unit

	Projection Projection

	FOV    float64 // perspective vertical field of view, degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64

	Zoom       float64 // orthographic zoom factor
	OrthoHalfW float64 // orthographic frustum half extents at zoom 1
	OrthoHalfH float64

	FocalOffset mgl64.Vec3 // camera-local: right, up, back components
}

// ViewDir returns the unit direction from the orbit position toward the
// target. Zero when the pose is degenerate.
func (c *Camera) ViewDir() mgl64.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// Distance returns the orbit radius.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}

// Basis returns the camera's right, up, and back unit vectors derived from
// the current pose.
func (c *Camera) Basis() (right, up, back mgl64.Vec3) {
	forward := c.ViewDir()
	if forward.Len() == 0 {
		return mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, -1, 0}
	}
	right = forward.Cross(c.Up)
	if right.Len() < 1e-12 {
		// View parallel to up; pick any stable right.
		right = forward.Cross(mgl64.Vec3{0, 1, 0})
		if right.Len() < 1e-12 {
			right = forward.Cross(mgl64.Vec3{1, 0, 0})
		}
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return right, up, forward.Mul(-1)
}

// FocalOffsetWorld expresses the camera-local focal offset in world space.
func (c *Camera) FocalOffsetWorld() mgl64.Vec3 {
	if c.FocalOffset == (mgl64.Vec3{}) {
		return mgl64.Vec3{}
	}
	right, up, back := c.Basis()
	return right.Mul(c.FocalOffset.X()).
		Add(up.Mul(c.FocalOffset.Y())).
		Add(back.Mul(c.FocalOffset.Z()))
}

// Eye returns the rendered eye position: the orbit position displaced by
// the focal offset.
func (c *Camera) Eye() mgl64.Vec3 {
	return c.Position.Add(c.FocalOffsetWorld())
}

// ViewMatrix returns the view matrix. The look point shifts together with
// the eye so the focal offset translates the image without re-aiming it.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	off := c.FocalOffsetWorld()
	return mgl64.LookAtV(c.Position.Add(off), c.Target.Add(off), c.Up)
}

// ProjectionMatrix returns the projection matrix for the active kind.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	if c.Projection == Orthographic {
		zoom := c.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		hw := c.OrthoHalfW / zoom
		hh := c.OrthoHalfH / zoom
		return mgl64.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// InvViewProjection returns the inverse view-projection matrix, used to
// unproject screen points into world rays.
func (c *Camera) InvViewProjection() mgl64.Mat4 {
	return c.ViewProjection().Inv()
}

// ViewHeight returns the world-space vertical extent visible at the plane
// through the target, the invariant preserved across projection changes.
func (c *Camera) ViewHeight() float64 {
	if c.Projection == Orthographic {
		zoom := c.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		return 2 * c.OrthoHalfH / zoom
	}
	return ViewHeightAtDistance(c.Distance(), c.FOV)
}

// WorldUnitsPerPixel estimates world units per screen pixel at the focus
// plane for a viewport of the given pixel height.
func (c *Camera) WorldUnitsPerPixel(viewportHeightPx float64) float64 {
	if viewportHeightPx <= 0 {
		return 0
	}
	return c.ViewHeight() / viewportHeightPx
}

// PoseFinite reports whether the pose holds no NaN or infinite values and
// the camera is not sitting on its own target.
func (c *Camera) PoseFinite() bool {
	if !geom.IsFinite(c.Position) || !geom.IsFinite(c.Target) || !geom.IsFinite(c.Up) {
		return false
	}
	d := c.Distance()
	return geom.IsFiniteScalar(d) && d > 0 && !math.IsNaN(c.FOV)
}
