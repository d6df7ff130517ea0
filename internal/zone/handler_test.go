package zone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc)
	RegisterAdminRoutes(r.Group("/admin"), svc)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	Convey("Given the zone routes", t, func() {
		store := &memStore{}
		svc := NewService(store, testDefaults)
		r := newTestRouter(svc)

		Convey("When the zone is read", func() {
			rec := doJSON(r, http.MethodGet, "/zone", "")

			Convey("Then the seeded defaults are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got ZoneResponse
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Lat, ShouldEqual, 18.465364)
				So(got.RadiusMeters, ShouldEqual, 200.0)
			})
		})

		Convey("When a valid update is sent", func() {
			rec := doJSON(r, http.MethodPut, "/admin/zone", `{"lat":35.681236,"lng":139.767125,"radius_m":120}`)

			Convey("Then it is applied", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				z, err := svc.Get(context.Background())
				So(err, ShouldBeNil)
				So(z.CenterLat, ShouldEqual, 35.681236)
				So(z.RadiusMeters, ShouldEqual, 120.0)
			})
		})

		Convey("When a form update is sent", func() {
			req := httptest.NewRequest(http.MethodPut, "/admin/zone", strings.NewReader("lat=1.5&lng=2.5&radius_m=30"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			Convey("Then it is applied too", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				z, _ := svc.Get(context.Background())
				So(z.CenterLng, ShouldEqual, 2.5)
			})
		})

		Convey("When a malformed update is sent", func() {
			_, _ = svc.Set(context.Background(), 5, 5, 5)
			bodies := []string{
				`{"lat":"north","lng":1,"radius_m":1}`,
				`{"lng":1,"radius_m":1}`,
				`not json`,
			}

			Convey("Then it is reported and the zone is unchanged", func() {
				for _, b := range bodies {
					rec := doJSON(r, http.MethodPut, "/admin/zone", b)
					So(rec.Code, ShouldEqual, http.StatusBadRequest)
					So(rec.Body.String(), ShouldContainSubstring, string(CodeInvalidArgument))
				}
				z, _ := svc.Get(context.Background())
				So(z.CenterLat, ShouldEqual, 5.0)
			})
		})

		Convey("When an out-of-range update is sent", func() {
			rec := doJSON(r, http.MethodPut, "/admin/zone", `{"lat":120,"lng":1,"radius_m":1}`)

			Convey("Then a validation error is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var body errorDTO
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.OK, ShouldBeFalse)
				So(body.Code, ShouldEqual, CodeInvalidArgument)
			})
		})

		Convey("When the store is down", func() {
			store.failGet = errors.New("down")
			rec := doJSON(r, http.MethodGet, "/zone", "")

			Convey("Then a storage error is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, string(CodeStorage))
			})
		})
	})
}
