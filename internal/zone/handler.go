package zone

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"geofence-attendance/internal/platform/requestid"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 利用者側（認証なし）
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	// GET /zone 画面に円を描くため
	r.GET("/zone", h.GetZone)
}

// RegisterAdminRoutes: 管理者用（RequireAuth/RequireRole の後ろに置くこと）
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.PUT("/zone", h.UpdateZone)
}

// GetZone godoc
// @Summary  Current office zone
// @Tags     zone
// @Produce  json
// @Success  200 {object} ZoneResponse
// @Router   /zone [get]
func (h *Handler) GetZone(c *gin.Context) {
	z, err := h.svc.Get(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] request_id=%s get zone: %v", requestid.From(c), err)
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, z.toDTO())
}

// UpdateZone godoc
// @Summary  Replace the office zone
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body body UpdateZoneRequest true "new center and radius"
// @Success  200 {object} ZoneResponse
// @Failure  400 {object} errorDTO
// @Security BearerAuth
// @Router   /admin/zone [put]
func (h *Handler) UpdateZone(c *gin.Context) {
	var req UpdateZoneRequest
	// 不正な入力は黙って捨てずに 400 で返す
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "lat, lng and radius_m must be numbers"))
		return
	}

	z, err := h.svc.Set(c.Request.Context(), *req.Lat, *req.Lng, *req.RadiusMeters)
	if err != nil {
		if !IsValidation(err) {
			log.Printf("[ERROR] request_id=%s update zone: %v", requestid.From(c), err)
		}
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	log.Printf("[INFO] office zone updated: lat=%f lng=%f radius_m=%f", z.CenterLat, z.CenterLng, z.RadiusMeters)
	c.JSON(http.StatusOK, z.toDTO())
}

// ---------- helpers ----------

type errorDTO struct {
	OK      bool   `json:"ok"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func errorBody(code Code, msg string) errorDTO {
	return errorDTO{OK: false, Code: code, Message: msg}
}

func errorFromErr(err error) errorDTO {
	if api, ok := err.(*APIError); ok {
		return errorBody(api.Code, api.Message)
	}
	return errorBody(CodeStorage, "internal error")
}
