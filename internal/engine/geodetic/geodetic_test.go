package geodetic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRoundTrip(t *testing.T) {
	// Sweep latitudes strictly inside (-90, 90) and a spread of
	// longitudes and heights.
	lats := []float64{-89.9, -60, -45.123, -0.001, 0, 12.5, 45, 89.9}
	lons := []float64{-180, -120.7, -90, -1e-6, 0, 33.3, 90, 179.999}
	heights := []float64{-100, 0, 123.456, 8848, 400000}

	for _, lat := range lats {
		for _, lon := range lons {
			for _, h := range heights {
				g := FromDegrees(lat, lon, h)
				back := FromECEF(ToECEF(g))

				if math.Abs(back.Lat-g.Lat) > 1e-6 {
					t.Errorf("lat %v lon %v h %v: lat error %v", lat, lon, h, back.Lat-g.Lat)
				}
				dLon := math.Abs(back.Lon - g.Lon)
				if dLon > math.Pi {
					dLon = 2*math.Pi - dLon
				}
				if dLon > 1e-6 {
					t.Errorf("lat %v lon %v h %v: lon error %v", lat, lon, h, dLon)
				}
				if math.Abs(back.Height-g.Height) > 1e-3 {
					t.Errorf("lat %v lon %v h %v: height error %v", lat, lon, h, back.Height-g.Height)
				}
			}
		}
	}
}

func TestEquatorECEF(t *testing.T) {
	p := ToECEF(FromDegrees(0, 0, 0))
	want := mgl64.Vec3{SemiMajorAxis, 0, 0}
	if p.Sub(want).Len() > 1e-6 {
		t.Errorf("equator/prime meridian = %v, want %v", p, want)
	}
}

func TestPoleDegenerate(t *testing.T) {
	// Exactly on the polar axis: lat +-90, lon 0 by convention, height
	// measured against the polar radius.
	g := FromECEF(mgl64.Vec3{0, 0, PolarRadius + 1000})
	if math.Abs(g.Lat-math.Pi/2) > 1e-12 {
		t.Errorf("north pole lat = %v", g.Lat)
	}
	if g.Lon != 0 {
		t.Errorf("north pole lon = %v, want 0", g.Lon)
	}
	if math.Abs(g.Height-1000) > 1e-6 {
		t.Errorf("north pole height = %v, want 1000", g.Height)
	}

	g = FromECEF(mgl64.Vec3{0, 0, -(PolarRadius + 250)})
	if math.Abs(g.Lat+math.Pi/2) > 1e-12 {
		t.Errorf("south pole lat = %v", g.Lat)
	}
	if math.Abs(g.Height-250) > 1e-6 {
		t.Errorf("south pole height = %v, want 250", g.Height)
	}
}

func TestENUBasisOrthonormal(t *testing.T) {
	cases := [][2]float64{{0, 0}, {0.8, -2.1}, {-1.2, 3.0}, {1.5, 0.1}}
	for _, c := range cases {
		east, north, up := ENUBasis(c[0], c[1])
		for name, v := range map[string]mgl64.Vec3{"east": east, "north": north, "up": up} {
			if math.Abs(v.Len()-1) > 1e-12 {
				t.Errorf("lat %v lon %v: %s not unit", c[0], c[1], name)
			}
		}
		if math.Abs(east.Dot(north)) > 1e-12 || math.Abs(east.Dot(up)) > 1e-12 || math.Abs(north.Dot(up)) > 1e-12 {
			t.Errorf("lat %v lon %v: basis not orthogonal", c[0], c[1])
		}
		// Right-handed: east x north = up.
		if east.Cross(north).Sub(up).Len() > 1e-12 {
			t.Errorf("lat %v lon %v: basis not right-handed", c[0], c[1])
		}
	}
}

func TestENUBasisMatchesGradient(t *testing.T) {
	// Up at the equator/prime meridian is +X in ECEF; north is +Z.
	east, north, up := ENUBasis(0, 0)
	if up.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-12 {
		t.Errorf("up = %v, want +X", up)
	}
	if north.Sub(mgl64.Vec3{0, 0, 1}).Len() > 1e-12 {
		t.Errorf("north = %v, want +Z", north)
	}
	if east.Sub(mgl64.Vec3{0, 1, 0}).Len() > 1e-12 {
		t.Errorf("east = %v, want +Y", east)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	origin := ToECEF(FromDegrees(47.3769, 8.5417, 408))
	f := NewFrame(origin)

	pts := []mgl64.Vec3{{0, 0, 0}, {100, -250, 30}, {-5000, 2000, -12}}
	for _, p := range pts {
		back := f.ToLocal(f.ToECEF(p))
		if back.Sub(p).Len() > 1e-6 {
			t.Errorf("frame round trip for %v: got %v", p, back)
		}
	}

	// The frame origin maps to the local origin.
	if f.ToLocal(origin).Len() > 1e-6 {
		t.Errorf("origin should map to local zero: %v", f.ToLocal(origin))
	}
}

func TestFrameAxesMatchENU(t *testing.T) {
	origin := ToECEF(FromDegrees(-33.8688, 151.2093, 58))
	f := NewFrame(origin)

	// A point 1 meter east of the origin lands at local (1, 0, 0).
	p := f.ToLocal(origin.Add(f.East))
	if p.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("east offset = %v, want (1,0,0)", p)
	}
	p = f.ToLocal(origin.Add(f.Up.Mul(2)))
	if p.Sub(mgl64.Vec3{0, 0, 2}).Len() > 1e-9 {
		t.Errorf("up offset = %v, want (0,0,2)", p)
	}
}

func TestRebase(t *testing.T) {
	origin := ToECEF(FromDegrees(35.6762, 139.6503, 40))
	f := NewFrame(origin)

	delta := mgl64.Vec3{150, -30, 2}
	next := f.Rebase(delta)

	// New origin is the old origin displaced by delta in the old basis.
	wantOrigin := origin.
		Add(f.East.Mul(delta.X())).
		Add(f.North.Mul(delta.Y())).
		Add(f.Up.Mul(delta.Z()))
	if next.Origin.Sub(wantOrigin).Len() > 1e-9 {
		t.Errorf("rebased origin = %v, want %v", next.Origin, wantOrigin)
	}

	// Render offset accumulates the negated delta.
	if next.RenderOffset.Sub(delta.Mul(-1)).Len() > 1e-9 {
		t.Errorf("render offset = %v, want %v", next.RenderOffset, delta.Mul(-1))
	}

	// Content cached in old render coordinates stays usable: the cached
	// coordinates plus the offset advance reproduce coordinates freshly
	// derived against the new frame, to within the small tilt introduced
	// by the curved tangent plane.
	ecefPt := f.ToECEF(mgl64.Vec3{200, 100, 0})
	cached := f.ToLocal(ecefPt)
	shift := next.RenderOffset.Sub(f.RenderOffset)
	fresh := next.ToLocal(ecefPt)
	if cached.Add(shift).Sub(fresh).Len() > 0.01 {
		t.Errorf("cached position %v + offset advance %v diverged from fresh %v",
			cached, shift, fresh)
	}

	// Chained rebases keep accumulating.
	third := next.Rebase(mgl64.Vec3{-50, 0, 0})
	wantOffset := mgl64.Vec3{-100, 30, -2}
	if third.RenderOffset.Sub(wantOffset).Len() > 1e-9 {
		t.Errorf("accumulated offset = %v, want %v", third.RenderOffset, wantOffset)
	}
}
