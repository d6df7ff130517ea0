package zone

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// memStore はテスト用の Repository 実装
type memStore struct {
	mu      sync.Mutex
	zone    *Zone
	failGet error
	failSet error
	seeds   int
}

func (m *memStore) Get(ctx context.Context) (Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return Zone{}, m.failGet
	}
	if m.zone == nil {
		return Zone{}, ErrNotSeeded
	}
	return *m.zone, nil
}

func (m *memStore) Seed(ctx context.Context, z Zone) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return false, m.failSet
	}
	if m.zone != nil {
		return false, nil
	}
	m.seeds++
	m.zone = &z
	return true, nil
}

func (m *memStore) Replace(ctx context.Context, z Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.zone = &z
	return nil
}

var testDefaults = Zone{CenterLat: 18.465364, CenterLng: 83.661536, RadiusMeters: 200}

func TestService(t *testing.T) {
	Convey("Given a zone service over an empty store", t, func() {
		ctx := context.Background()
		now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
		store := &memStore{}
		svc := NewService(store, testDefaults, WithClock(fixedClock{now}))

		Convey("When Get is called before anything was stored", func() {
			z, err := svc.Get(ctx)

			Convey("Then the defaults are seeded and returned", func() {
				So(err, ShouldBeNil)
				So(z.CenterLat, ShouldEqual, 18.465364)
				So(z.CenterLng, ShouldEqual, 83.661536)
				So(z.RadiusMeters, ShouldEqual, 200.0)
				So(z.UpdatedAt.Equal(now), ShouldBeTrue)
				So(store.seeds, ShouldEqual, 1)
			})
		})

		Convey("When seeding runs twice after an update", func() {
			_, err := svc.EnsureSeeded(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Set(ctx, 35.0, 139.0, 50)
			So(err, ShouldBeNil)

			seeded, err := svc.EnsureSeeded(ctx)

			Convey("Then the stored value is not overwritten", func() {
				So(err, ShouldBeNil)
				So(seeded, ShouldBeFalse)
				z, _ := svc.Get(ctx)
				So(z.CenterLat, ShouldEqual, 35.0)
				So(z.RadiusMeters, ShouldEqual, 50.0)
			})
		})

		Convey("When a valid zone is set", func() {
			z, err := svc.Set(ctx, -33.8568, 151.2153, 0)

			Convey("Then the next Get sees it", func() {
				So(err, ShouldBeNil)
				So(z.RadiusMeters, ShouldEqual, 0.0)
				got, err := svc.Get(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, z)
			})
		})

		Convey("When invalid values are set", func() {
			_, err := svc.Set(ctx, 10, 10, 100)
			So(err, ShouldBeNil)

			cases := []struct {
				lat, lng, radius float64
			}{
				{91, 0, 10},
				{-90.5, 0, 10},
				{0, 180.1, 10},
				{0, 0, -1},
				{math.NaN(), 0, 10},
				{0, math.Inf(-1), 10},
				{0, 0, math.Inf(1)},
			}

			Convey("Then each is rejected and the prior zone stays", func() {
				for _, tc := range cases {
					_, err := svc.Set(ctx, tc.lat, tc.lng, tc.radius)
					So(IsValidation(err), ShouldBeTrue)
				}
				z, _ := svc.Get(ctx)
				So(z.CenterLat, ShouldEqual, 10.0)
				So(z.RadiusMeters, ShouldEqual, 100.0)
			})
		})

		Convey("When the store fails", func() {
			boom := errors.New("connection refused")
			store.failGet = boom
			store.failSet = boom

			_, getErr := svc.Get(ctx)
			_, setErr := svc.Set(ctx, 1, 1, 1)

			Convey("Then a storage error wrapping the cause is returned", func() {
				var api *APIError
				So(errors.As(getErr, &api), ShouldBeTrue)
				So(api.Code, ShouldEqual, CodeStorage)
				So(errors.Is(getErr, boom), ShouldBeTrue)
				So(errors.Is(setErr, boom), ShouldBeTrue)
				So(IsValidation(setErr), ShouldBeFalse)
			})
		})

		Convey("When readers race a writer", func() {
			_, err := svc.Set(ctx, 1, 1, 1)
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			torn := make(chan Zone, 100)
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					v := float64(i%2 + 1)
					_, _ = svc.Set(ctx, v, v, v)
				}(i)
				go func() {
					defer wg.Done()
					z, err := svc.Get(ctx)
					if err == nil && (z.CenterLat != z.CenterLng || z.CenterLat != z.RadiusMeters) {
						torn <- z
					}
				}()
			}
			wg.Wait()
			close(torn)

			Convey("Then no reader observes a mixed value", func() {
				So(len(torn), ShouldEqual, 0)
			})
		})
	})
}
