package domain_test

import (
	"math"
	"testing"

	"github.com/investperdiem/perdiem/pkg/domain"
)

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDistance(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b   domain.Point
		meters float64
	}{
		"1 degree along the meridian, from the equator": {
			a: domain.Point{Lat: 0, Lon: 0}, b: domain.Point{Lat: 1, Lon: 0},
			meters: 110574.389,
		},
		"1 degree along the equator": {
			a: domain.Point{Lat: 0, Lon: 0}, b: domain.Point{Lat: 0, Lon: 1},
			meters: 111319.491,
		},
		"antipodal points on the equator are half a meridian apart": {
			a: domain.Point{Lat: 0, Lon: 0}, b: domain.Point{Lat: 0, Lon: 180},
			meters: 20003931.459,
		},
		"same point": {
			a: domain.Point{Lat: 40.7128, Lon: -74.006}, b: domain.Point{Lat: 40.7128, Lon: -74.006},
			meters: 0,
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := domain.Distance(testcase.a, testcase.b)
			if !near(actual, testcase.meters, 0.01) {
				t.Errorf("(actual, expected) = (%f, %f)", actual, testcase.meters)
			}
		})
	}
}

func TestDestination(t *testing.T) {
	origins := map[string]domain.Point{
		"new york":  {Lat: 40.7128, Lon: -74.0060},
		"sydney":    {Lat: -33.8688, Lon: 151.2093},
		"reykjavik": {Lat: 64.1466, Lon: -21.9426},
	}
	for name, origin := range origins {
		for _, bearing := range []float64{0, 45, 90, 180, 270} {
			for _, meters := range []float64{1_000, 40_233.6, 500_000} {
				dest := domain.Destination(origin, bearing, meters)
				if d := domain.Distance(origin, dest); !near(d, meters, 0.01) {
					t.Errorf(
						"%s, bearing %f, %f m: walked distance is %f",
						name, bearing, meters, d,
					)
				}
			}
		}
	}
}

func TestBoundingBox(t *testing.T) {
	origin := domain.Point{Lat: 40.7128, Lon: -74.0060}
	miles := 25.0
	box := domain.BoundingBox(origin, miles)

	t.Run("box is around the origin", func(t *testing.T) {
		if !(box.MinLat < origin.Lat && origin.Lat < box.MaxLat) {
			t.Errorf("latitude: %+v", box)
		}
		if !(box.MinLon < origin.Lon && origin.Lon < box.MaxLon) {
			t.Errorf("longitude: %+v", box)
		}
	})

	t.Run("points within radius are in the box", func(t *testing.T) {
		for bearing := 0.0; bearing < 360; bearing += 15 {
			p := domain.Destination(origin, bearing, miles*1609.344*0.999)
			if !box.Contains(p) {
				t.Errorf("bearing %f: %+v is not in %+v", bearing, p, box)
			}
			if !domain.WithinRadius(origin, p, miles) {
				t.Errorf("bearing %f: %+v is not within radius", bearing, p)
			}
		}
	})

	t.Run("corner of the box is not within radius", func(t *testing.T) {
		corner := domain.Point{Lat: box.MaxLat, Lon: box.MaxLon}
		if domain.WithinRadius(origin, corner, miles) {
			t.Errorf("corner %+v should be out of radius", corner)
		}
	})
}

func TestRound4(t *testing.T) {
	for in, expected := range map[float64]float64{
		40.71278:   40.7128,
		-74.00597:  -74.006,
		151.20934:  151.2093,
		0.00004999: 0,
	} {
		if actual := domain.Round4(in); !near(actual, expected, 1e-9) {
			t.Errorf("Round4(%f): (actual, expected) = (%f, %f)", in, actual, expected)
		}
	}
}
