package zone

import (
	"context"
	"errors"
	"math"
	"time"

	"geofence-attendance/internal/platform/metrics"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Service は出勤エリアの読み書きを担う。
// 参照は常に最新のコミット済みの値、更新は検証を通ったものだけが全体置換される。
type Service struct {
	store    Repository
	defaults Zone
	clock    Clock
	metrics  *metrics.Manager
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService: defaults は office_zone が空のときに投入される値
func NewService(store Repository, defaults Zone, opts ...Option) *Service {
	s := &Service{store: store, defaults: defaults, clock: realClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSeeded は起動時に呼ぶ。既に値があれば何もしない。
func (s *Service) EnsureSeeded(ctx context.Context) (bool, error) {
	d := s.defaults
	d.UpdatedAt = s.clock.Now()
	seeded, err := s.store.Seed(ctx, d)
	if err != nil {
		s.metrics.StorageError("zone")
		return false, ErrStorage("failed to seed office zone", err)
	}
	return seeded, nil
}

// GET /zone
func (s *Service) Get(ctx context.Context) (Zone, error) {
	z, err := s.store.Get(ctx)
	if errors.Is(err, ErrNotSeeded) {
		if _, err := s.EnsureSeeded(ctx); err != nil {
			return Zone{}, err
		}
		z, err = s.store.Get(ctx)
	}
	if err != nil {
		s.metrics.StorageError("zone")
		return Zone{}, ErrStorage("failed to read office zone", err)
	}
	return z, nil
}

// PUT /admin/zone
func (s *Service) Set(ctx context.Context, lat, lng, radius float64) (Zone, error) {
	if err := Validate(lat, lng, radius); err != nil {
		s.metrics.ZoneUpdate("invalid")
		return Zone{}, err
	}
	z := Zone{CenterLat: lat, CenterLng: lng, RadiusMeters: radius, UpdatedAt: s.clock.Now()}
	if err := s.store.Replace(ctx, z); err != nil {
		s.metrics.ZoneUpdate("error")
		s.metrics.StorageError("zone")
		return Zone{}, ErrStorage("failed to update office zone", err)
	}
	s.metrics.ZoneUpdate("ok")
	return z, nil
}

// Validate は中心座標と半径の妥当性を確認する
func Validate(lat, lng, radius float64) error {
	if !finite(lat) || lat < -90 || lat > 90 {
		return ErrInvalid("lat must be a finite number between -90 and 90")
	}
	if !finite(lng) || lng < -180 || lng > 180 {
		return ErrInvalid("lng must be a finite number between -180 and 180")
	}
	if !finite(radius) || radius < 0 {
		return ErrInvalid("radius_m must be a finite number >= 0")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
