package zone

import "time"

// Zone は出勤を認める円形エリア（中心＋半径）。常に1件だけ存在する。
type Zone struct {
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
	UpdatedAt    time.Time
}

// DB行に対応（スキャン用）
type zoneRow struct {
	CenterLat float64
	CenterLng float64
	RadiusM   float64
	UpdatedAt time.Time
}

func (r zoneRow) toModel() Zone {
	return Zone{
		CenterLat:    r.CenterLat,
		CenterLng:    r.CenterLng,
		RadiusMeters: r.RadiusM,
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (z Zone) toDTO() ZoneResponse {
	return ZoneResponse{
		Lat:          z.CenterLat,
		Lng:          z.CenterLng,
		RadiusMeters: z.RadiusMeters,
		UpdatedAt:    z.UpdatedAt,
	}
}
