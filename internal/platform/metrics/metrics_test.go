package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithNamespace("test"))

		Convey("When check-ins are recorded", func() {
			m.CheckIn("Present", 10*time.Millisecond)
			m.CheckIn("Present", 5*time.Millisecond)
			m.CheckIn("OutsideGeofence", time.Millisecond)
			m.CheckInRejected("MISSING_IDENTITY")

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.checkIns.WithLabelValues("Present")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.checkIns.WithLabelValues("OutsideGeofence")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.checkInRejections.WithLabelValues("MISSING_IDENTITY")), ShouldEqual, 1.0)
			})
		})

		Convey("When an export is recorded", func() {
			m.Exported(7)

			Convey("Then exports and exported events are counted", func() {
				So(testutil.ToFloat64(m.exports), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.exportedEvents), ShouldEqual, 7.0)
			})
		})

		Convey("When the handler is scraped", func() {
			m.ZoneUpdate("ok")
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the exposition contains the namespaced metric", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "test_zone_updates_total"), ShouldBeTrue)
			})
		})

		Convey("When the gin middleware wraps a route", func() {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(m.GinMiddleware())
			r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

			Convey("Then the request is counted by route", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ping", "204")), ShouldEqual, 1.0)
			})
		})
	})

	Convey("Given a nil manager", t, func() {
		var m *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.CheckIn("Present", time.Millisecond)
				m.CheckInRejected("X")
				m.ZoneUpdate("ok")
				m.Exported(1)
				m.StorageError("zone")
			}, ShouldNotPanic)
		})
	})
}
