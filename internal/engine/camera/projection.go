package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// Stateless conversions between a perspective camera's (FOV, distance) and
// an orthographic camera's (zoom, frustum height) that preserve the
// visible size of a plane through the focus point.

// ViewHeightAtDistance returns the world-space height visible at the given
// distance under the given vertical field of view (degrees).
func ViewHeightAtDistance(distance, fovDeg float64) float64 {
	return 2 * distance * math.Tan(mgl64.DegToRad(fovDeg)/2)
}

// DistanceForViewHeight returns the distance at which the given view
// height fills a frustum of the given vertical field of view (degrees).
func DistanceForViewHeight(height, fovDeg float64) float64 {
	return height / (2 * math.Tan(mgl64.DegToRad(fovDeg)/2))
}

// FOVForViewHeight returns the vertical field of view (degrees) that shows
// the given view height at the given distance.
func FOVForViewHeight(height, distance float64) float64 {
	return mgl64.RadToDeg(2 * math.Atan2(height/2, distance))
}

// SyncOrthoFromPerspective converts a perspective camera into an
// orthographic one whose frustum matches the perspective view size at the
// plane through target perpendicular to the view direction. Zoom is reset
// to 1 and position/orientation are copied. Fails when the plane lies
// behind the camera or the result is not finite.
func SyncOrthoFromPerspective(c Camera, target mgl64.Vec3) (Camera, bool) {
	dir := c.ViewDir()
	if dir.Len() == 0 {
		return c, false
	}
	planeDist := target.Sub(c.Position).Dot(dir)
	if planeDist <= 0 || !geom.IsFiniteScalar(planeDist) {
		return c, false
	}

	halfH := planeDist * math.Tan(mgl64.DegToRad(c.FOV)/2)
	if !geom.IsFiniteScalar(halfH) || halfH <= 0 {
		return c, false
	}

	out := c
	out.Projection = Orthographic
	out.Zoom = 1
	out.OrthoHalfH = halfH
	out.OrthoHalfW = halfH * c.Aspect
	return out, true
}

// SyncPerspectiveFromOrtho converts an orthographic camera back into a
// perspective one at the requested field of view, solving for the distance
// that reproduces the orthographic visible height and placing the camera
// along the current view direction at that distance from target.
func SyncPerspectiveFromOrtho(c Camera, target mgl64.Vec3, fovDeg float64) (Camera, bool) {
	dir := c.ViewDir()
	if dir.Len() == 0 || fovDeg <= 0 {
		return c, false
	}

	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	height := 2 * c.OrthoHalfH / zoom
	dist := DistanceForViewHeight(height, fovDeg)
	if !geom.IsFiniteScalar(dist) || dist <= 0 {
		return c, false
	}

	out := c
	out.Projection = Perspective
	out.FOV = fovDeg
	out.Position = target.Sub(dir.Mul(dist))
	if !geom.IsFinite(out.Position) {
		return c, false
	}
	return out, true
}
