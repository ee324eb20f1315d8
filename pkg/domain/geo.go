package domain

import (
	"math"

	"github.com/tidwall/geodesic"
)

const metersPerMile = 1609.344

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Round4 rounds a coordinate to 4 decimal places, the precision coordinates are stored in.
func Round4(deg float64) float64 {
	return math.Round(deg*1e4) / 1e4
}

// Box is a range of latitudes and longitudes.
type Box struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

func (b Box) Contains(p Point) bool {
	return b.MinLat <= p.Lat && p.Lat <= b.MaxLat &&
		b.MinLon <= p.Lon && p.Lon <= b.MaxLon
}

// BoundingBox returns the box containing every point within miles of origin,
// by walking miles south, north, west and east on the geodesic.
//
// Boxes crossing a pole or the antimeridian are not supported.
func BoundingBox(origin Point, miles float64) Box {
	m := miles * metersPerMile
	return Box{
		MinLat: Destination(origin, 180, m).Lat,
		MaxLat: Destination(origin, 0, m).Lat,
		MinLon: Destination(origin, 270, m).Lon,
		MaxLon: Destination(origin, 90, m).Lon,
	}
}

// WithinRadius reports whether p is within miles of origin on the geodesic.
func WithinRadius(origin Point, p Point, miles float64) bool {
	return DistanceMiles(origin, p) <= miles
}

func DistanceMiles(a, b Point) float64 {
	return Distance(a, b) / metersPerMile
}

// Destination solves the direct geodesic problem on WGS-84:
// the point reached by walking meters from origin toward bearing (degrees clockwise from north).
func Destination(origin Point, bearing float64, meters float64) Point {
	var lat, lon float64
	geodesic.WGS84.Direct(origin.Lat, origin.Lon, bearing, meters, &lat, &lon, nil)
	return Point{Lat: lat, Lon: lon}
}

// Distance solves the inverse geodesic problem on WGS-84, in meters.
func Distance(a, b Point) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters
}
