package zone

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a zone store on a mocked database", t, func() {
		conn, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		defer conn.Close()
		store := NewStore(conn)
		ctx := context.Background()
		updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		Convey("When the singleton row exists", func() {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT center_lat, center_lng, radius_m, updated_at FROM office_zone")).
				WithArgs(1).
				WillReturnRows(sqlmock.NewRows([]string{"center_lat", "center_lng", "radius_m", "updated_at"}).
					AddRow(18.465364, 83.661536, 200.0, updated))

			z, err := store.Get(ctx)

			Convey("Then it is returned", func() {
				So(err, ShouldBeNil)
				So(z, ShouldResemble, Zone{CenterLat: 18.465364, CenterLng: 83.661536, RadiusMeters: 200, UpdatedAt: updated})
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the table is empty", func() {
			mock.ExpectQuery("FROM office_zone").
				WillReturnRows(sqlmock.NewRows([]string{"center_lat", "center_lng", "radius_m", "updated_at"}))

			_, err := store.Get(ctx)

			Convey("Then ErrNotSeeded is returned", func() {
				So(errors.Is(err, ErrNotSeeded), ShouldBeTrue)
			})
		})

		Convey("When seeding an empty table", func() {
			mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO office_zone")).
				WithArgs(1, 18.465364, 83.661536, 200.0, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))

			seeded, err := store.Seed(ctx, Zone{CenterLat: 18.465364, CenterLng: 83.661536, RadiusMeters: 200, UpdatedAt: updated})

			Convey("Then the row is reported as inserted", func() {
				So(err, ShouldBeNil)
				So(seeded, ShouldBeTrue)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When seeding an already seeded table", func() {
			mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO office_zone")).
				WillReturnResult(sqlmock.NewResult(0, 0))

			seeded, err := store.Seed(ctx, Zone{UpdatedAt: updated})

			Convey("Then nothing is overwritten", func() {
				So(err, ShouldBeNil)
				So(seeded, ShouldBeFalse)
			})
		})

		Convey("When replacing the zone", func() {
			mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
				WithArgs(1, 35.0, 139.0, 75.0, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 2))

			err := store.Replace(ctx, Zone{CenterLat: 35, CenterLng: 139, RadiusMeters: 75, UpdatedAt: updated})

			Convey("Then a single upsert is issued", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})
	})
}
