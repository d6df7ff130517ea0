package attendance

import "time"

const (
	DefaultListLimit   = 200
	DefaultExportLimit = 50
	ExportFilename     = "attendance_logs.csv"

	// attendance_events.emp_id / emp_name の列幅
	MaxEmployeeIDLen   = 64
	MaxEmployeeNameLen = 255
)

// 端末からのチェックイン。lat/lng は数値でも数値文字列でもよい。
type CheckInRequest struct {
	EmployeeID   string `json:"emp_id"`
	EmployeeName string `json:"emp_name"`
	Lat          any    `json:"lat"`
	Lng          any    `json:"lng"`
}

// Verdict はチェックイン結果（そのままレスポンスになる）
type Verdict struct {
	OK             bool      `json:"ok"`
	Inside         bool      `json:"inside"`
	Status         Status    `json:"status"`
	DistanceMeters float64   `json:"distance_m"` // 小数2桁に丸め
	Message        string    `json:"message"`
	UserLat        float64   `json:"user_lat"`
	UserLng        float64   `json:"user_lng"`
	OfficeLat      float64   `json:"office_lat"`
	OfficeLng      float64   `json:"office_lng"`
	RadiusMeters   float64   `json:"radius_m"`
	EventID        int64     `json:"event_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type EventResponse struct {
	ID             int64     `json:"id"`
	EmployeeID     string    `json:"emp_id"`
	EmployeeName   string    `json:"emp_name"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	DistanceMeters float64   `json:"distance_m"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type ZoneSnapshot struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radius_m"`
}

// 管理画面用：直近の記録＋現在のエリア
type DashboardResponse struct {
	Records []EventResponse `json:"records"`
	Total   int64           `json:"total"`
	Zone    ZoneSnapshot    `json:"zone"`
}

type ExportResponse struct {
	ULID       string    `json:"export_ulid"`
	RowCount   int       `json:"row_count"`
	ExportedBy string    `json:"exported_by,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}
