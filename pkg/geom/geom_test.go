package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func TestSphericalRoundTrip(t *testing.T) {
	dirs := []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{-1, -1, 0.5},
		{0.3, -0.7, -0.2},
	}
	for _, d := range dirs {
		az, pol := SphericalFromDir(d)
		back := DirFromSpherical(az, pol)
		want := d.Normalize()
		if back.Sub(want).Len() > 1e-12 {
			t.Errorf("round trip for %v: got %v, want %v", d, back, want)
		}
	}
}

func TestSphericalZeroDir(t *testing.T) {
	az, pol := SphericalFromDir(mgl64.Vec3{})
	if az != 0 || pol != 0 {
		t.Errorf("zero dir: got (%v, %v), want (0, 0)", az, pol)
	}
}

func TestUnwrapNearBranchCut(t *testing.T) {
	// An angle just past -pi should unwrap to just past +pi when the
	// reference sits near +pi.
	ref := math.Pi - 0.1
	angle := -math.Pi + 0.1
	got := Unwrap(ref, angle)
	want := math.Pi + 0.1
	if math.Abs(got-want) > eps {
		t.Errorf("Unwrap(%v, %v) = %v, want %v", ref, angle, got, want)
	}
}

func TestUnwrapMultipleTurns(t *testing.T) {
	ref := 6 * math.Pi
	got := Unwrap(ref, 0.25)
	want := 6*math.Pi + 0.25
	if math.Abs(got-want) > eps {
		t.Errorf("Unwrap across turns = %v, want %v", got, want)
	}
}

func TestUnwrapFarReference(t *testing.T) {
	// A reference accumulated over thousands of turns must still unwrap
	// in one step, not by walking back a revolution at a time.
	ref := 2*math.Pi*10000 + 0.5
	got := Unwrap(ref, 0.6)
	want := 2*math.Pi*10000 + 0.6
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Unwrap(%v, 0.6) = %v, want %v", ref, got, want)
	}
	if math.Abs(got-ref) > math.Pi {
		t.Errorf("unwrapped angle %v not within pi of reference %v", got, ref)
	}
}

func TestUnwrapStableWhenClose(t *testing.T) {
	got := Unwrap(1.0, 1.5)
	if got != 1.5 {
		t.Errorf("Unwrap should not shift nearby angles: got %v", got)
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if EaseInOutCubic(0) != 0 {
		t.Error("ease at 0 should be 0")
	}
	if EaseInOutCubic(1) != 1 {
		t.Error("ease at 1 should be 1")
	}
	if math.Abs(EaseInOutCubic(0.5)-0.5) > eps {
		t.Error("ease at 0.5 should be 0.5")
	}
	// Clamped outside [0,1].
	if EaseInOutCubic(-1) != 0 || EaseInOutCubic(2) != 1 {
		t.Error("ease should clamp inputs")
	}
	// Monotonic.
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("ease not monotonic at %d", i)
		}
		prev = v
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(mgl64.Vec3{1, 2, 3}) {
		t.Error("finite vector reported non-finite")
	}
	if IsFinite(mgl64.Vec3{math.NaN(), 0, 0}) {
		t.Error("NaN vector reported finite")
	}
	if IsFinite(mgl64.Vec3{0, math.Inf(1), 0}) {
		t.Error("Inf vector reported finite")
	}
}

func TestPerpComponent(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	v := mgl64.Vec3{1, 2, 3}
	p := PerpComponent(v, up)
	if math.Abs(p.Dot(up)) > eps {
		t.Errorf("perp component not orthogonal to axis: dot = %v", p.Dot(up))
	}
	if p.Sub(mgl64.Vec3{1, 2, 0}).Len() > eps {
		t.Errorf("perp component = %v, want (1,2,0)", p)
	}
}

func TestAngleBetween(t *testing.T) {
	a := mgl64.Vec3{1, 0, 0}
	b := mgl64.Vec3{0, 1, 0}
	if math.Abs(AngleBetween(a, b)-math.Pi/2) > eps {
		t.Error("orthogonal vectors should be pi/2 apart")
	}
	if AngleBetween(a, mgl64.Vec3{}) != 0 {
		t.Error("zero vector should report zero angle")
	}
}
