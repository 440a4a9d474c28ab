package geo

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// STEERING GEOMETRY
// All simulation distances and speeds are expressed in coordinate degrees so
// the same tuning constants work anywhere on the planet. Vectors are geom.XY
// with X carrying the latitude delta and Y the longitude delta.

// ErrInvalidCoordinates is returned when coordinates fall outside the WGS84 envelope
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are inside the WGS84 envelope.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Distance returns the Euclidean distance between two positions in degrees.
func Distance(a, b Coordinates) float64 {
	return geom.XY{X: a.Lat - b.Lat, Y: a.Lng - b.Lng}.Length()
}

// Toward returns the vector pointing from one position to another.
func Toward(from, to Coordinates) geom.XY {
	return geom.XY{X: to.Lat - from.Lat, Y: to.Lng - from.Lng}
}

// Offset translates a position by a vector of degree deltas.
func Offset(c Coordinates, v geom.XY) Coordinates {
	return Coordinates{Lat: c.Lat + v.X, Lng: c.Lng + v.Y}
}

// Normalize scales a vector to unit length. The zero vector maps to the zero
// vector rather than dividing by zero.
func Normalize(v geom.XY) geom.XY {
	if v.X == 0 && v.Y == 0 {
		return geom.XY{}
	}
	return v.Unit()
}

// Clamp limits a vector to the given magnitude. Vectors already at or under
// the limit are returned unchanged, longer ones are rescaled to exactly max.
func Clamp(v geom.XY, max float64) geom.XY {
	if v.Dot(v) <= max*max {
		return v
	}
	return Normalize(v).Scale(max)
}

// Heading returns the unit vector for an angle in radians.
func Heading(angle float64) geom.XY {
	return geom.XY{X: math.Cos(angle), Y: math.Sin(angle)}
}

// DistanceMeters projects both positions to EPSG:3857 and returns the planar
// distance in meters. Used for human-readable output only, never by the
// simulation itself.
func DistanceMeters(a, b Coordinates) float64 {
	f := wgs84.EPSG().Transform(4326, 3857)
	ax, ay, _ := f(a.Lng, a.Lat, 0)
	bx, by, _ := f(b.Lng, b.Lat, 0)
	return math.Hypot(ax-bx, ay-by)
}

// CacheKey rounds coordinates to four decimal places (~10m) so nearby
// lookups share a place-cache entry.
func CacheKey(c Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}
