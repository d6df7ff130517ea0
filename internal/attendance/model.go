package attendance

import "time"

type Status string

const (
	StatusPresent         Status = "Present"
	StatusOutsideGeofence Status = "OutsideGeofence"
)

// Event は1回のチェックイン結果。作成後は更新されない。
// 距離と判定は作成時点のエリアで計算したスナップショット。
type Event struct {
	ID             int64
	EmployeeID     string
	EmployeeName   string
	Lat            float64
	Lng            float64
	DistanceMeters float64
	Status         Status
	CreatedAt      time.Time
}

// ExportBatch はエクスポート＋削除1回分の控え
type ExportBatch struct {
	ExportID   int64
	ULID       string
	RowCount   int
	Body       []byte // UTF-8 CSV
	ExportedBy string
	ExportedAt time.Time
}

// DB行に対応（スキャン用）
type eventRow struct {
	ID        int64
	EmpID     string
	EmpName   string
	Lat       float64
	Lng       float64
	DistanceM float64
	Status    string
	CreatedAt time.Time
}

func (r eventRow) toModel() Event {
	return Event{
		ID:             r.ID,
		EmployeeID:     r.EmpID,
		EmployeeName:   r.EmpName,
		Lat:            r.Lat,
		Lng:            r.Lng,
		DistanceMeters: r.DistanceM,
		Status:         Status(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func (e Event) toDTO() EventResponse {
	return EventResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		Lat:            e.Lat,
		Lng:            e.Lng,
		DistanceMeters: e.DistanceMeters,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
	}
}

func (b ExportBatch) toDTO() ExportResponse {
	return ExportResponse{
		ULID:       b.ULID,
		RowCount:   b.RowCount,
		ExportedBy: b.ExportedBy,
		ExportedAt: b.ExportedAt,
	}
}
