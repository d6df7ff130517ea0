// Package geo は地表上の2点間距離（球面近似）を扱う。
package geo

import "math"

// EarthRadiusMeters は球面近似で使う地球半径（m）。
const EarthRadiusMeters = 6371000.0

// DistanceMeters は (lat1,lng1) と (lat2,lng2) の大円距離をハバーサイン公式で返す。
// 入力は10進度。範囲チェックは呼び出し側で行うこと（ValidLatLng）。
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// 浮動小数の誤差で [0,1] をはみ出すと sqrt(1-a) が NaN になる
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// ValidLatLng は緯度経度が有限かつ範囲内かを返す。
func ValidLatLng(lat, lng float64) bool {
	return finite(lat) && finite(lng) &&
		lat >= -90 && lat <= 90 &&
		lng >= -180 && lng <= 180
}

// RoundTo は v を小数点以下 places 桁に丸める（表示用）。
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
