package worldframe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func checkBasis(t *testing.T, b Basis) {
	t.Helper()
	for name, v := range map[string]mgl64.Vec3{"right": b.Right, "up": b.Up, "forward": b.Forward} {
		if math.Abs(v.Len()-1) > eps {
			t.Errorf("%s not unit length: %v", name, v.Len())
		}
	}
	if math.Abs(b.Right.Dot(b.Up)) > eps || math.Abs(b.Right.Dot(b.Forward)) > eps || math.Abs(b.Up.Dot(b.Forward)) > eps {
		t.Error("basis vectors not mutually orthogonal")
	}
	// Right-handed: right x forward should reproduce... right x up = -forward
	// convention check: forward = up x right.
	want := b.Up.Cross(b.Right)
	if want.Sub(b.Forward).Len() > eps {
		t.Errorf("basis not right-handed: up x right = %v, forward = %v", want, b.Forward)
	}
}

func TestFixedUpConstant(t *testing.T) {
	f := NewFixed(mgl64.Vec3{0, 0, 1})
	pts := []mgl64.Vec3{{0, 0, 0}, {100, -5, 3}, {-1e6, 2e6, 0}}
	for _, p := range pts {
		if up := f.UpAt(p); up != (mgl64.Vec3{0, 0, 1}) {
			t.Errorf("fixed up at %v = %v", p, up)
		}
		checkBasis(t, f.BasisAt(p))
	}
}

func TestFixedZeroUpFallsBack(t *testing.T) {
	f := NewFixed(mgl64.Vec3{})
	if f.UpAt(mgl64.Vec3{}) != (mgl64.Vec3{0, 0, 1}) {
		t.Error("zero up should fall back to +Z")
	}
}

func TestRadialUpPointsOutward(t *testing.T) {
	r := NewRadial(mgl64.Vec3{})
	p := mgl64.Vec3{10, 0, 0}
	if up := r.UpAt(p); up.Sub(mgl64.Vec3{1, 0, 0}).Len() > eps {
		t.Errorf("radial up at %v = %v, want +X", p, up)
	}
	checkBasis(t, r.BasisAt(p))
}

func TestRadialBasisAtPole(t *testing.T) {
	// At the pole the primary reference is parallel to up; the fallback
	// axis must still produce a valid basis.
	r := NewRadial(mgl64.Vec3{})
	b := r.BasisAt(mgl64.Vec3{0, 0, 5})
	checkBasis(t, b)
	if b.Up.Sub(mgl64.Vec3{0, 0, 1}).Len() > eps {
		t.Errorf("up at pole = %v, want +Z", b.Up)
	}
}

func TestRadialCenterDegenerate(t *testing.T) {
	r := NewRadial(mgl64.Vec3{})
	up := r.UpAt(mgl64.Vec3{})
	if math.Abs(up.Len()-1) > eps {
		t.Errorf("up at center should still be unit: %v", up)
	}
}

func TestRadialForwardPointsNorth(t *testing.T) {
	// On the equator of a Z-pole globe, forward should point toward +Z.
	r := NewRadial(mgl64.Vec3{})
	b := r.BasisAt(mgl64.Vec3{7, 0, 0})
	if b.Forward.Sub(mgl64.Vec3{0, 0, 1}).Len() > eps {
		t.Errorf("equator forward = %v, want +Z", b.Forward)
	}
}

func TestPivotPlane(t *testing.T) {
	f := NewFixed(mgl64.Vec3{0, 0, 1})
	p := mgl64.Vec3{3, 4, 5}
	pl := f.PivotPlaneAt(p)
	if pl.Point != p {
		t.Errorf("plane point = %v, want %v", pl.Point, p)
	}
	if pl.Normal.Sub(mgl64.Vec3{0, 0, 1}).Len() > eps {
		t.Errorf("plane normal = %v, want +Z", pl.Normal)
	}
}

func TestStabilizeAwayFromPoleUnchanged(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	dir := mgl64.Vec3{1, 0, 1}.Normalize()
	view := mgl64.Vec3{0, 1, 0}
	if got := StabilizeDirection(dir, up, view); got != dir {
		t.Errorf("direction away from pole was modified: %v", got)
	}
}

func TestStabilizeNearPole(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	view := mgl64.Vec3{0, 1, -0.2}
	got := StabilizeDirection(up, up, view)
	if math.Abs(got.Len()-1) > eps {
		t.Errorf("stabilized direction not unit: %v", got.Len())
	}
	if math.Abs(got.Dot(up)) >= 1-1e-9 {
		t.Error("stabilized direction still exactly polar")
	}
	// The nudge must lie in the view's tangential direction so roll stays
	// continuous with the prior orientation.
	tangent := mgl64.Vec3{0, 1, 0}
	if got.Dot(tangent) <= 0 {
		t.Errorf("nudge not aligned with view tangent: %v", got)
	}
}

func TestStabilizePolarViewFallsBack(t *testing.T) {
	// View vector parallel to up leaves no tangent component; the
	// stabilizer must still move the direction off the pole.
	up := mgl64.Vec3{0, 0, 1}
	got := StabilizeDirection(up, up, up.Mul(3))
	if math.Abs(got.Dot(up)) >= 1-1e-12 {
		t.Error("fallback tangent did not move direction off the pole")
	}
	if math.Abs(got.Len()-1) > eps {
		t.Errorf("stabilized direction not unit: %v", got.Len())
	}
}

func TestStabilizeContinuity(t *testing.T) {
	// Snapping to the zenith from nearby prior views should produce
	// nearby stabilized directions, not discontinuous ones.
	up := mgl64.Vec3{0, 0, 1}
	a := StabilizeDirection(up, up, mgl64.Vec3{0, 1, -0.5})
	b := StabilizeDirection(up, up, mgl64.Vec3{0.05, 1, -0.5})
	if a.Sub(b).Len() > 0.1 {
		t.Errorf("stabilized directions discontinuous: %v vs %v", a, b)
	}
}
