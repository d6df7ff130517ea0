package attendance

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geofence-attendance/internal/platform/auth"
	"geofence-attendance/internal/platform/requestid"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 端末側（認証なし）
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	// POST /checkins
	r.POST("/checkins", h.CheckIn)
}

// RegisterAdminRoutes: 管理者用（RequireAuth/RequireRole の後ろに置くこと）
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/attendances", h.Dashboard)
	// 取得と同時に削除するので GET にはしない
	r.POST("/attendances/export", h.ExportAndClear)
	r.GET("/exports", h.ListExports)
	r.GET("/exports/:export_ulid", h.DownloadExport)
}

// ---------- handlers ----------

// CheckIn godoc
// @Summary  Report a position and record attendance
// @Tags     attendance
// @Accept   json
// @Produce  json
// @Param    body body CheckInRequest true "employee and coordinates"
// @Success  200 {object} Verdict
// @Failure  400 {object} errorDTO
// @Failure  500 {object} errorDTO
// @Router   /checkins [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	v, err := h.svc.CheckIn(c.Request.Context(), req)
	if err != nil {
		if toHTTPStatus(err) >= http.StatusInternalServerError {
			log.Printf("[ERROR] request_id=%s check-in emp_id=%q: %v", requestid.From(c), req.EmployeeID, err)
		}
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, v)
}

// Dashboard godoc
// @Summary  Recent attendance events, newest first
// @Tags     admin
// @Produce  json
// @Param    limit query int false "max rows (default and cap 200)"
// @Success  200 {object} DashboardResponse
// @Security BearerAuth
// @Router   /admin/attendances [get]
func (h *Handler) Dashboard(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 0)
	res, err := h.svc.Dashboard(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] request_id=%s dashboard: %v", requestid.From(c), err)
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportAndClear godoc
// @Summary  Download all events as CSV and delete them
// @Tags     admin
// @Produce  text/csv
// @Param    encoding query string false "utf8 (default), utf8bom or sjis"
// @Success  200 {file} file
// @Security BearerAuth
// @Router   /admin/attendances/export [post]
func (h *Handler) ExportAndClear(c *gin.Context) {
	// エンコーディングは削除前に検証する
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	batch, err := h.svc.ExportAndClear(c.Request.Context(), c.GetString(auth.CtxUserIDKey))
	if err != nil {
		log.Printf("[ERROR] request_id=%s export: %v", requestid.From(c), err)
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	log.Printf("[INFO] attendance exported: export_ulid=%s rows=%d by=%s", batch.ULID, batch.RowCount, batch.ExportedBy)
	h.writeCSV(c, batch, enc)
}

// ListExports godoc
// @Summary  Archived exports
// @Tags     admin
// @Produce  json
// @Success  200 {array} ExportResponse
// @Security BearerAuth
// @Router   /admin/exports [get]
func (h *Handler) ListExports(c *gin.Context) {
	list, err := h.svc.ListExports(c.Request.Context(), parseIntDefault(c.Query("limit"), 0))
	if err != nil {
		log.Printf("[ERROR] request_id=%s list exports: %v", requestid.From(c), err)
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	out := make([]ExportResponse, 0, len(list))
	for _, b := range list {
		out = append(out, b.toDTO())
	}
	c.JSON(http.StatusOK, out)
}

// DownloadExport godoc
// @Summary  Download an archived export again
// @Tags     admin
// @Produce  text/csv
// @Param    export_ulid path string true "export id"
// @Param    encoding query string false "utf8 (default), utf8bom or sjis"
// @Success  200 {file} file
// @Security BearerAuth
// @Router   /admin/exports/{export_ulid} [get]
func (h *Handler) DownloadExport(c *gin.Context) {
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	batch, err := h.svc.GetExport(c.Request.Context(), c.Param("export_ulid"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	h.writeCSV(c, batch, enc)
}

// ---------- helpers ----------

func (h *Handler) writeCSV(c *gin.Context, batch ExportBatch, enc string) {
	body, contentType, err := encodeCSV(batch.Body, enc)
	if err != nil {
		// 控えは保存済みなので再ダウンロードで取り直せる
		log.Printf("[ERROR] request_id=%s encode export %s: %v", requestid.From(c), batch.ULID, err)
		c.JSON(http.StatusInternalServerError, errorBody(CodeStorage, "failed to encode export "+batch.ULID))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Header("X-Export-ULID", batch.ULID)
	c.Header("X-Export-Rows", strconv.Itoa(batch.RowCount))
	c.Data(http.StatusOK, contentType, body)
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

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
