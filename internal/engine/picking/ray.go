// Package picking provides ray casting utilities: screen-to-world
// unprojection, ray/plane and ray/triangle intersection, and an AABB
// broad-phase test.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// Ray is a half-line in 3D space with a normalized direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ScreenRay converts pixel coordinates into a world-space ray.
// invViewProj is the inverse of the view-projection matrix. Works for both
// perspective and orthographic projections: the near and far NDC points
// are unprojected and the ray runs between them.
func ScreenRay(screenX, screenY, viewportW, viewportH float64, invViewProj mgl64.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // flip Y

	nearWorld := invViewProj.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	farWorld := invViewProj.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})

	if w := nearWorld.W(); w != 0 {
		nearWorld = nearWorld.Mul(1 / w)
	}
	if w := farWorld.W(); w != 0 {
		farWorld = farWorld.Mul(1 / w)
	}

	origin := nearWorld.Vec3()
	dir := farWorld.Vec3().Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// parallelEps rejects ray/plane configurations too close to parallel to
// solve stably.
const parallelEps = 1e-9

// baryEps widens the barycentric bounds so a ray landing exactly on a
// shared triangle edge cannot round out of both neighbors at once.
const baryEps = 1e-9

// IntersectPlane intersects the ray with a plane. Returns false when the
// ray is (nearly) parallel to the plane or the hit lies behind the origin.
func (r Ray) IntersectPlane(p geom.Plane) (mgl64.Vec3, bool) {
	denom := r.Direction.Dot(p.Normal)
	if math.Abs(denom) < parallelEps {
		return mgl64.Vec3{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectTriangle runs the Moller-Trumbore test against triangle (a, b, c).
// Returns the ray parameter of the hit. Back faces are reported too, and
// hits exactly on an edge or vertex count; the caller disambiguates by
// distance.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3) (t float64, hit bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if math.Abs(det) < parallelEps {
		return 0, false // ray parallel to triangle plane
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < -baryEps || u > 1+baryEps {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < -baryEps || u+v > 1+baryEps {
		return 0, false
	}

	t = edge2.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB tests the ray against an axis-aligned box using the slab
// method. Returns the entry distance, or the exit distance if the ray
// starts inside the box.
func (r Ray) IntersectAABB(box AABB) (t float64, hit bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin[axis]
		d := r.Direction[axis]
		if d != 0 {
			t1 := (box.Min[axis] - o) / d
			t2 := (box.Max[axis] - o) / d
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o < box.Min[axis] || o > box.Max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
