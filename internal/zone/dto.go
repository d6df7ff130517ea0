package zone

import "time"

// 管理画面からのエリア更新。JSON でもフォームでも受ける。
type UpdateZoneRequest struct {
	Lat          *float64 `json:"lat" form:"lat" binding:"required"`
	Lng          *float64 `json:"lng" form:"lng" binding:"required"`
	RadiusMeters *float64 `json:"radius_m" form:"radius_m" binding:"required"`
}

type ZoneResponse struct {
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	RadiusMeters float64   `json:"radius_m"`
	UpdatedAt    time.Time `json:"updated_at"`
}
