// Package geodetic converts between WGS84 geodetic coordinates and ECEF,
// and maintains a local East-North-Up render frame with a floating origin
// so render-space coordinates stay small near the camera.
package geodetic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WGS84 ellipsoid parameters.
const (
	SemiMajorAxis = 6378137.0           // meters
	Flattening    = 1.0 / 298.257223563 // f
)

var (
	// PolarRadius is the semi-minor axis b = a(1-f).
	PolarRadius = SemiMajorAxis * (1 - Flattening)

	e2  = Flattening * (2 - Flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
)

// Geodetic is a position on the WGS84 ellipsoid: latitude and longitude in
// radians, height in meters above the ellipsoid.
type Geodetic struct {
	Lat, Lon, Height float64
}

// FromDegrees builds a Geodetic from degree inputs.
func FromDegrees(latDeg, lonDeg, height float64) Geodetic {
	return Geodetic{
		Lat:    mgl64.DegToRad(latDeg),
		Lon:    mgl64.DegToRad(lonDeg),
		Height: height,
	}
}

// ToECEF converts a geodetic position to earth-centered earth-fixed meters
// using the radius of curvature in the prime vertical.
func ToECEF(g Geodetic) mgl64.Vec3 {
	sinLat := math.Sin(g.Lat)
	cosLat := math.Cos(g.Lat)

	n := SemiMajorAxis / math.Sqrt(1-e2*sinLat*sinLat)

	return mgl64.Vec3{
		(n + g.Height) * cosLat * math.Cos(g.Lon),
		(n + g.Height) * cosLat * math.Sin(g.Lon),
		(n*(1-e2) + g.Height) * sinLat,
	}
}

// FromECEF converts ECEF meters to geodetic coordinates using Bowring's
// single-pass approximation via the reduced-latitude auxiliary angle.
// Exactly on the polar axis, latitude is +-90 degrees, longitude 0 by
// convention, and height is |z| minus the polar radius.
func FromECEF(p mgl64.Vec3) Geodetic {
	x, y, z := p.X(), p.Y(), p.Z()
	horiz := math.Hypot(x, y)

	if horiz == 0 {
		lat := math.Pi / 2
		if z < 0 {
			lat = -lat
		}
		return Geodetic{Lat: lat, Lon: 0, Height: math.Abs(z) - PolarRadius}
	}

	lon := math.Atan2(y, x)

	// Reduced-latitude auxiliary angle.
	theta := math.Atan2(z*SemiMajorAxis, horiz*PolarRadius)
	sinT := math.Sin(theta)
	cosT := math.Cos(theta)

	lat := math.Atan2(
		z+ep2*PolarRadius*sinT*sinT*sinT,
		horiz-e2*SemiMajorAxis*cosT*cosT*cosT,
	)

	sinLat := math.Sin(lat)
	n := SemiMajorAxis / math.Sqrt(1-e2*sinLat*sinLat)
	height := horiz/math.Cos(lat) - n

	return Geodetic{Lat: lat, Lon: lon, Height: height}
}

// ENUBasis returns the unit east, north, and up ECEF vectors of the local
// tangent plane at the given latitude/longitude (radians).
func ENUBasis(lat, lon float64) (east, north, up mgl64.Vec3) {
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	east = mgl64.Vec3{-sinLon, cosLon, 0}
	north = mgl64.Vec3{-sinLat * cosLon, -sinLat * sinLon, cosLat}
	up = mgl64.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
	return east, north, up
}
