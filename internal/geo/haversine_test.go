package geo

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDistanceMeters(t *testing.T) {
	Convey("Given the haversine distance", t, func() {
		const officeLat, officeLng = 18.465364, 83.661536

		Convey("When both points coincide", func() {
			Convey("Then the distance is exactly zero", func() {
				So(DistanceMeters(officeLat, officeLng, officeLat, officeLng), ShouldEqual, 0.0)
				So(DistanceMeters(-90, 180, -90, 180), ShouldEqual, 0.0)
				So(DistanceMeters(0, 0, 0, 0), ShouldEqual, 0.0)
			})
		})

		Convey("When the points are swapped", func() {
			pairs := [][4]float64{
				{officeLat, officeLng, 18.475364, 83.661536},
				{51.5007, -0.1246, 40.6892, -74.0445},
				{-33.8568, 151.2153, 35.6586, 139.7454},
			}
			Convey("Then the distance is symmetric", func() {
				for _, p := range pairs {
					So(DistanceMeters(p[0], p[1], p[2], p[3]), ShouldEqual, DistanceMeters(p[2], p[3], p[0], p[1]))
				}
			})
		})

		Convey("When moving 0.01 degrees north of the office", func() {
			d := DistanceMeters(18.475364, 83.661536, officeLat, officeLng)

			Convey("Then the distance is about 1112 m", func() {
				So(d, ShouldAlmostEqual, 1112.0, 1.0)
			})
		})

		Convey("When the points are antipodal", func() {
			d := DistanceMeters(0, 0, 0, 180)

			Convey("Then the result is half the circumference and not NaN", func() {
				So(math.IsNaN(d), ShouldBeFalse)
				So(d, ShouldAlmostEqual, math.Pi*EarthRadiusMeters, 1e-6)
			})
		})

		Convey("When the points are the poles", func() {
			d := DistanceMeters(90, 0, -90, 0)

			Convey("Then the result is half the circumference", func() {
				So(d, ShouldAlmostEqual, math.Pi*EarthRadiusMeters, 1e-6)
			})
		})
	})
}

func TestValidLatLng(t *testing.T) {
	Convey("Given coordinate validation", t, func() {
		So(ValidLatLng(0, 0), ShouldBeTrue)
		So(ValidLatLng(90, 180), ShouldBeTrue)
		So(ValidLatLng(-90, -180), ShouldBeTrue)
		So(ValidLatLng(90.0001, 0), ShouldBeFalse)
		So(ValidLatLng(0, -180.5), ShouldBeFalse)
		So(ValidLatLng(math.NaN(), 0), ShouldBeFalse)
		So(ValidLatLng(0, math.Inf(1)), ShouldBeFalse)
	})
}

func TestRoundTo(t *testing.T) {
	Convey("Given display rounding", t, func() {
		So(RoundTo(1111.9492664455, 2), ShouldEqual, 1111.95)
		So(RoundTo(0, 2), ShouldEqual, 0.0)
		So(RoundTo(12.344, 2), ShouldEqual, 12.34)
	})
}
