package zone

import (
	"context"
	"database/sql"
	"errors"

	"geofence-attendance/internal/platform/db"
)

// office_zone は id=1 の1行だけを持つ
const singletonID = 1

var ErrNotSeeded = errors.New("office zone not seeded")

type Repository interface {
	// Get は現在のエリアを返す。未投入なら ErrNotSeeded。
	Get(ctx context.Context) (Zone, error)
	// Seed は行が無いときだけ z を書き込み、書き込んだら true を返す。
	Seed(ctx context.Context, z Zone) (bool, error)
	// Replace は1文で行全体を置き換える（未投入でも作成する）。
	Replace(ctx context.Context, z Zone) error
}

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

func (s *Store) Get(ctx context.Context) (Zone, error) {
	const q = `
	SELECT center_lat, center_lng, radius_m, updated_at
	FROM office_zone
	WHERE id = ?`
	var r zoneRow
	err := s.db.QueryRowContext(ctx, q, singletonID).Scan(&r.CenterLat, &r.CenterLng, &r.RadiusM, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Zone{}, ErrNotSeeded
	}
	if err != nil {
		return Zone{}, err
	}
	return r.toModel(), nil
}

func (s *Store) Seed(ctx context.Context, z Zone) (bool, error) {
	// INSERT IGNORE: 既存行があれば何もしない（再起動で上書きしない）
	const q = `
	INSERT IGNORE INTO office_zone (id, center_lat, center_lng, radius_m, updated_at)
	VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, singletonID, z.CenterLat, z.CenterLng, z.RadiusMeters, z.UpdatedAt)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

func (s *Store) Replace(ctx context.Context, z Zone) error {
	// 単一行・単一文なので読み手が新旧の混在を見ることはない
	const q = `
	INSERT INTO office_zone (id, center_lat, center_lng, radius_m, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	center_lat = VALUES(center_lat),
	center_lng = VALUES(center_lng),
	radius_m   = VALUES(radius_m),
	updated_at = VALUES(updated_at)`
	_, err := s.db.ExecContext(ctx, q, singletonID, z.CenterLat, z.CenterLng, z.RadiusMeters, z.UpdatedAt)
	return err
}
