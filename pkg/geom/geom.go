// Package geom provides shared geometry helpers used by the camera and
// picking code: planes, spherical coordinates, angle unwrapping, easing,
// and finiteness checks. All math is float64 on top of mgl64 types.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// NewPlane returns a plane through point with the given normal.
// The normal is normalized; a zero normal yields a degenerate plane
// that no ray will intersect.
func NewPlane(point, normal mgl64.Vec3) Plane {
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}
	return Plane{Point: point, Normal: normal}
}

// SphericalFromDir converts a direction in the canonical Z-up frame into
// spherical angles: azimuth is measured in the XY plane from +X toward +Y,
// polar is measured from the +Z axis down. dir need not be normalized.
func SphericalFromDir(dir mgl64.Vec3) (azimuth, polar float64) {
	r := dir.Len()
	if r == 0 {
		return 0, 0
	}
	azimuth = math.Atan2(dir.Y(), dir.X())
	polar = math.Acos(mgl64.Clamp(dir.Z()/r, -1, 1))
	return azimuth, polar
}

// DirFromSpherical converts spherical angles back into a unit direction in
// the canonical Z-up frame.
func DirFromSpherical(azimuth, polar float64) mgl64.Vec3 {
	sp := math.Sin(polar)
	return mgl64.Vec3{
		sp * math.Cos(azimuth),
		sp * math.Sin(azimuth),
		math.Cos(polar),
	}
}

// Unwrap shifts angle by multiples of 2pi so that it lands within pi of
// reference. Consecutive small deltas therefore never jump across the
// -pi/pi branch cut. Constant time regardless of how far reference has
// drifted from the principal range.
func Unwrap(reference, angle float64) float64 {
	return angle - 2*math.Pi*math.Round((angle-reference)/(2*math.Pi))
}

// EaseInOutCubic maps linear progress t in [0,1] onto a cubic ease-in-out
// curve. Values outside [0,1] are clamped.
func EaseInOutCubic(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// IsFinite reports whether all components of v are finite.
func IsFinite(v mgl64.Vec3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}

// IsFiniteScalar reports whether s is neither NaN nor infinite.
func IsFiniteScalar(s float64) bool {
	return isFinite(s)
}

func isFinite(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0)
}

// AngleBetween returns the unsigned angle in radians between two vectors.
// Returns 0 if either vector is zero length.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// PerpComponent removes the component of v parallel to axis (axis must be
// unit length). The result may be zero when v is parallel to axis.
func PerpComponent(v, axis mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(axis.Mul(v.Dot(axis)))
}
