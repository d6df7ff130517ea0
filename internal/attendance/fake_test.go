package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"geofence-attendance/internal/zone"
)

// memRepo はテスト用の Repository。ロック1つで DB の原子性を模す。
type memRepo struct {
	mu      sync.Mutex
	events  []Event
	exports []ExportBatch
	nextID  int64
	base    time.Time

	failInsert error
	failList   error
	failExport error
}

func newMemRepo() *memRepo {
	return &memRepo{base: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
}

func (m *memRepo) Insert(ctx context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = m.base.Add(time.Duration(m.nextID) * time.Millisecond)
	m.events = append(m.events, *e)
	return nil
}

func (m *memRepo) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	return m.newestFirst(limit), nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return 0, m.failList
	}
	return int64(len(m.events)), nil
}

func (m *memRepo) ExportAndClear(ctx context.Context, batch ExportBatch, render func([]Event) []byte) (ExportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.newestFirst(len(m.events))
	batch.Body = render(snap)
	batch.RowCount = len(snap)
	if m.failExport != nil {
		// ロールバック相当：何も変えない
		return ExportBatch{}, m.failExport
	}
	m.events = nil
	batch.ExportID = int64(len(m.exports) + 1)
	m.exports = append(m.exports, batch)
	return batch, nil
}

func (m *memRepo) ListExports(ctx context.Context, limit int) ([]ExportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExportBatch
	for i := len(m.exports) - 1; i >= 0 && len(out) < limit; i-- {
		b := m.exports[i]
		b.Body = nil
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) GetExport(ctx context.Context, id string) (ExportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.exports {
		if b.ULID == id {
			return b, nil
		}
	}
	return ExportBatch{}, ErrExportNotFound
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *memRepo) newestFirst(limit int) []Event {
	out := append([]Event(nil), m.events...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

type staticZones struct {
	mu  sync.Mutex
	z   zone.Zone
	err error
}

func (s *staticZones) Get(ctx context.Context) (zone.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.z, s.err
}

func (s *staticZones) set(z zone.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.z = z
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct {
	mu  sync.Mutex
	n   int
	ids []string
}

func (g *seqIDs) New(time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.n%len(g.ids)]
	g.n++
	return id, nil
}
