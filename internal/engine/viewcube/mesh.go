// Package viewcube implements the orientation cube widget: a chamfered
// cube whose 26 regions (6 faces, 12 edges, 8 corners) each carry a
// semantic direction, an overlay camera mirroring the main view's
// orientation, and hit testing plus pointer gestures.
package viewcube

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/internal/engine/picking"
)

// HitKind classifies which kind of cube region was hit.
type HitKind int

const (
	KindFace HitKind = iota
	KindEdge
	KindCorner
)

func (k HitKind) String() string {
	switch k {
	case KindFace:
		return "face"
	case KindEdge:
		return "edge"
	default:
		return "corner"
	}
}

// Hit identifies one of the 26 cube regions: a kind plus a local
// direction in {-1,0,1}^3 with exactly 1, 2, or 3 non-zero components for
// faces, edges, and corners respectively.
type Hit struct {
	Kind HitKind
	Dir  [3]int
}

func (h Hit) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", h.Kind, h.Dir[0], h.Dir[1], h.Dir[2])
}

// Direction returns the hit's local direction as a unit vector.
func (h Hit) Direction() mgl64.Vec3 {
	v := mgl64.Vec3{float64(h.Dir[0]), float64(h.Dir[1]), float64(h.Dir[2])}
	return v.Normalize()
}

// Triangle is one baked triangle in cube-local space.
type Triangle struct {
	A, B, C mgl64.Vec3
}

// Mesh is the baked chamfered cube. Tags runs parallel to Triangles and
// maps every triangle index to its region, derived once at build time.
type Mesh struct {
	Triangles []Triangle
	Tags      []Hit
	Bounds    picking.AABB
}

// BuildMesh bakes a chamfered cube of the given edge length. chamfer is
// the amount cut from each corner; it must stay below half the size so
// every face keeps a positive area.
func BuildMesh(size, chamfer float64) *Mesh {
	h := size / 2
	m := h - chamfer

	mesh := &Mesh{
		Bounds: picking.AABB{
			Min: mgl64.Vec3{-h, -h, -h},
			Max: mgl64.Vec3{h, h, h},
		},
	}

	quad := func(tag Hit, a, b, c, d mgl64.Vec3) {
		mesh.Triangles = append(mesh.Triangles, Triangle{a, b, c}, Triangle{a, c, d})
		mesh.Tags = append(mesh.Tags, tag, tag)
	}
	tri := func(tag Hit, a, b, c mgl64.Vec3) {
		mesh.Triangles = append(mesh.Triangles, Triangle{a, b, c})
		mesh.Tags = append(mesh.Tags, tag)
	}

	// Faces: one inset quad per axis and sign.
	for axis := 0; axis < 3; axis++ {
		u := (axis + 1) % 3
		v := (axis + 2) % 3
		for _, sign := range []float64{1, -1} {
			var dir [3]int
			dir[axis] = int(sign)
			corner := func(us, vs float64) mgl64.Vec3 {
				var p mgl64.Vec3
				p[axis] = sign * h
				p[u] = us * m
				p[v] = vs * m
				return p
			}
			quad(Hit{Kind: KindFace, Dir: dir},
				corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1))
		}
	}

	// Edges: one chamfer quad per axis pair and sign pair. The free axis
	// runs along the edge.
	pairs := [3][2]int{{0, 1}, {1, 2}, {0, 2}}
	for _, p := range pairs {
		i, j := p[0], p[1]
		k := 3 - i - j
		for _, si := range []float64{1, -1} {
			for _, sj := range []float64{1, -1} {
				var dir [3]int
				dir[i] = int(si)
				dir[j] = int(sj)
				vert := func(ai, aj, ak float64) mgl64.Vec3 {
					var v mgl64.Vec3
					v[i] = si * ai
					v[j] = sj * aj
					v[k] = ak
					return v
				}
				quad(Hit{Kind: KindEdge, Dir: dir},
					vert(h, m, m), vert(h, m, -m), vert(m, h, -m), vert(m, h, m))
			}
		}
	}

	// Corners: one triangle per sign triple.
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			for _, sz := range []float64{1, -1} {
				tag := Hit{Kind: KindCorner, Dir: [3]int{int(sx), int(sy), int(sz)}}
				tri(tag,
					mgl64.Vec3{sx * m, sy * m, sz * h},
					mgl64.Vec3{sx * h, sy * m, sz * m},
					mgl64.Vec3{sx * m, sy * h, sz * m})
			}
		}
	}

	return mesh
}

// HitTest raycasts the mesh and returns the tag of the nearest triangle
// hit. The bounding box rejects most misses before any triangle test.
func (m *Mesh) HitTest(r picking.Ray) (Hit, bool) {
	if _, ok := r.IntersectAABB(m.Bounds); !ok {
		return Hit{}, false
	}

	best := -1
	bestT := 0.0
	for i, tri := range m.Triangles {
		t, ok := r.IntersectTriangle(tri.A, tri.B, tri.C)
		if !ok {
			continue
		}
		if best < 0 || t < bestT {
			best = i
			bestT = t
		}
	}
	if best < 0 {
		return Hit{}, false
	}
	return m.Tags[best], true
}

// TriangleIndices returns the indices of all triangles carrying the given
// tag, for highlight rendering.
func (m *Mesh) TriangleIndices(h Hit) []int {
	var out []int
	for i, tag := range m.Tags {
		if tag == h {
			out = append(out, i)
		}
	}
	return out
}

// Regions enumerates all 26 valid hits in bake order.
func (m *Mesh) Regions() []Hit {
	seen := make(map[Hit]bool, 26)
	var out []Hit
	for _, tag := range m.Tags {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
