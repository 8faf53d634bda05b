package worldframe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// Looking exactly along the up axis makes a look-at orientation
// under-determined: any roll is valid. StabilizeDirection nudges such a
// direction sideways so the solver picks a roll continuous with the
// camera's prior orientation instead of an arbitrary one.
const (
	// poleDotThreshold marks a direction as "too close to the pole" once
	// its alignment with the up axis exceeds it.
	poleDotThreshold = 0.982

	// poleNudge is the size of the tangential nudge applied to a polar
	// direction before normalization.
	poleNudge = 0.05
)

// StabilizeDirection returns dir unchanged when it is safely away from the
// up axis. Near the pole it blends in a small component of viewVec
// projected onto the plane perpendicular to up, which ties the resulting
// roll to the current view. dir and up must be unit length.
func StabilizeDirection(dir, up, viewVec mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(dir.Dot(up)) <= poleDotThreshold {
		return dir
	}

	tangent := geom.PerpComponent(viewVec, up)
	if tangent.Len() < 1e-9 {
		// The view itself points along the pole; any tangent axis works.
		tangent = arbitraryPerpendicular(up)
	}
	tangent = tangent.Normalize()

	return dir.Add(tangent.Mul(poleNudge)).Normalize()
}

// arbitraryPerpendicular picks any unit vector perpendicular to axis.
func arbitraryPerpendicular(axis mgl64.Vec3) mgl64.Vec3 {
	candidate := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.Dot(candidate)) > 0.9 {
		candidate = mgl64.Vec3{0, 1, 0}
	}
	return axis.Cross(candidate).Normalize()
}
