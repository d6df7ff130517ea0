package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"geofence-attendance/internal/platform/db"
)

var (
	ErrExportNotFound = errors.New("export not found")
	// ErrSnapshotChanged: 削除件数がスナップショット件数と一致しなかった
	ErrSnapshotChanged = errors.New("attendance snapshot changed during export")
)

type Repository interface {
	// Insert は1件追記し、採番された ID と created_at を e に設定する
	Insert(ctx context.Context, e *Event) error
	// ListRecent は新しい順に最大 limit 件
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	Count(ctx context.Context) (int64, error)
	// ExportAndClear は全件を読み、render の結果を控えとして保存し、読んだ分だけ削除する（1Tx）
	ExportAndClear(ctx context.Context, batch ExportBatch, render func([]Event) []byte) (ExportBatch, error)
	ListExports(ctx context.Context, limit int) ([]ExportBatch, error)
	GetExport(ctx context.Context, ulid string) (ExportBatch, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const selectEventCols = `id, emp_id, emp_name, lat, lng, distance_m, status, created_at`

func (s *Store) Insert(ctx context.Context, e *Event) error {
	// INSERT と created_at の読み戻しを同じTxで行い、失敗時は何も残さない
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_events (emp_id, emp_name, lat, lng, distance_m, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP(6))`,
			e.EmployeeID, e.EmployeeName, e.Lat, e.Lng, e.DistanceMeters, string(e.Status),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		var createdAt time.Time
		if err := tx.QueryRowContext(ctx, `SELECT created_at FROM attendance_events WHERE id = ?`, id).Scan(&createdAt); err != nil {
			return err
		}
		e.ID = id
		e.CreatedAt = createdAt.UTC()
		return nil
	})
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+selectEventCols+`
	FROM attendance_events
	ORDER BY id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) ExportAndClear(ctx context.Context, batch ExportBatch, render func([]Event) []byte) (ExportBatch, error) {
	out := batch
	err := db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, func(ctx context.Context, tx db.DBTX) error {
		// FOR UPDATE で既存行と末尾のギャップをロックし、並行するチェックインは COMMIT 後に回す
		rows, err := tx.QueryContext(ctx, `
		SELECT `+selectEventCols+`
		FROM attendance_events
		ORDER BY id DESC
		FOR UPDATE`)
		if err != nil {
			return err
		}
		events, err := scanEvents(rows)
		if err != nil {
			return err
		}

		if len(events) > 0 {
			// スナップショットに入った行だけを消す
			res, err := tx.ExecContext(ctx, `DELETE FROM attendance_events WHERE id <= ?`, events[0].ID)
			if err != nil {
				return err
			}
			aff, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if aff != int64(len(events)) {
				return fmt.Errorf("%w: selected %d, deleted %d", ErrSnapshotChanged, len(events), aff)
			}
		}

		out.Body = render(events)
		out.RowCount = len(events)
		res, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_exports (export_ulid, row_count, csv_body, exported_by, exported_at)
		VALUES (?, ?, ?, ?, ?)`,
			out.ULID, out.RowCount, out.Body, nullIfEmpty(out.ExportedBy), out.ExportedAt,
		)
		if err != nil {
			return err
		}
		out.ExportID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return ExportBatch{}, err
	}
	return out, nil
}

// ListExports は控えの一覧（本文は含めない）
func (s *Store) ListExports(ctx context.Context, limit int) ([]ExportBatch, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT export_id, export_ulid, row_count, exported_by, exported_at
	FROM attendance_exports
	ORDER BY export_id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportBatch
	for rows.Next() {
		var (
			b  ExportBatch
			by sql.NullString
		)
		if err := rows.Scan(&b.ExportID, &b.ULID, &b.RowCount, &by, &b.ExportedAt); err != nil {
			return nil, err
		}
		b.ExportedBy = by.String
		b.ExportedAt = b.ExportedAt.UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetExport(ctx context.Context, ulid string) (ExportBatch, error) {
	var (
		b  ExportBatch
		by sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT export_id, export_ulid, row_count, csv_body, exported_by, exported_at
	FROM attendance_exports
	WHERE export_ulid = ?`, ulid,
	).Scan(&b.ExportID, &b.ULID, &b.RowCount, &b.Body, &by, &b.ExportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportBatch{}, ErrExportNotFound
	}
	if err != nil {
		return ExportBatch{}, err
	}
	b.ExportedBy = by.String
	b.ExportedAt = b.ExportedAt.UTC()
	return b, nil
}

// ===== helpers =====

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(&r.ID, &r.EmpID, &r.EmpName, &r.Lat, &r.Lng, &r.DistanceM, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
