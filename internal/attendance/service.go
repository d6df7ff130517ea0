package attendance

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"geofence-attendance/internal/geo"
	"geofence-attendance/internal/platform/metrics"
	"geofence-attendance/internal/zone"
)

// ===== Error model (zone と同型) =====
type Code string

const (
	CodeMissingIdentity Code = "MISSING_IDENTITY"
	CodeInvalidLocation Code = "MISSING_OR_INVALID_LOCATION"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeStorage         Code = "STORAGE_ERROR"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func ErrMissingIdentity(msg string) *APIError {
	return &APIError{Code: CodeMissingIdentity, Message: msg}
}
func ErrInvalidLocation(msg string) *APIError {
	return &APIError{Code: CodeInvalidLocation, Message: msg}
}
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

func ErrStorage(msg string, err error) *APIError {
	return &APIError{Code: CodeStorage, Message: msg, Err: err}
}

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeMissingIdentity, CodeInvalidLocation, CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// ===== インターフェース群 =====

// ZoneReader は現在の出勤エリアを返す（zone.Service が実装）
type ZoneReader interface {
	Get(ctx context.Context) (zone.Zone, error)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// IDGen は t をタイムスタンプ部に持つ ID を返す
type IDGen interface {
	New(t time.Time) (string, error)
}

type ulidGen struct{}

func (ulidGen) New(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	store     Repository
	zones     ZoneReader
	clock     Clock
	id        IDGen
	listLimit int
	metrics   *metrics.Manager
}

type Option func(*Service)

// WithListLimit は一覧の上限件数（既定 200）
func WithListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.listLimit = n
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithIDGen(g IDGen) Option {
	return func(s *Service) {
		if g != nil {
			s.id = g
		}
	}
}

func NewService(store Repository, zones ZoneReader, opts ...Option) *Service {
	s := &Service{
		store:     store,
		zones:     zones,
		clock:     realClock{},
		id:        ulidGen{},
		listLimit: DefaultListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// POST /checkins
func (s *Service) CheckIn(ctx context.Context, in CheckInRequest) (Verdict, error) {
	start := time.Now()

	empID := strings.TrimSpace(in.EmployeeID)
	empName := strings.TrimSpace(in.EmployeeName)
	if empID == "" || empName == "" {
		s.metrics.CheckInRejected(string(CodeMissingIdentity))
		return Verdict{}, ErrMissingIdentity("Please enter Employee ID and Name.")
	}
	if err := validateIdentity(empID, empName); err != nil {
		s.metrics.CheckInRejected(string(err.Code))
		return Verdict{}, err
	}

	lat, latOK := parseCoordinate(in.Lat)
	lng, lngOK := parseCoordinate(in.Lng)
	if in.Lat == nil || in.Lng == nil {
		s.metrics.CheckInRejected(string(CodeInvalidLocation))
		return Verdict{}, ErrInvalidLocation("Location not received.")
	}
	if !latOK || !lngOK || !geo.ValidLatLng(lat, lng) {
		s.metrics.CheckInRejected(string(CodeInvalidLocation))
		return Verdict{}, ErrInvalidLocation("Invalid coordinates.")
	}

	z, err := s.zones.Get(ctx)
	if err != nil {
		s.metrics.StorageError("attendance")
		return Verdict{}, ErrStorage("failed to read office zone", err)
	}

	distance := geo.DistanceMeters(lat, lng, z.CenterLat, z.CenterLng)
	inside := distance <= z.RadiusMeters
	status := StatusOutsideGeofence
	if inside {
		status = StatusPresent
	}

	ev := &Event{
		EmployeeID:     empID,
		EmployeeName:   empName,
		Lat:            lat,
		Lng:            lng,
		DistanceMeters: distance,
		Status:         status,
	}
	if err := s.store.Insert(ctx, ev); err != nil {
		s.metrics.StorageError("attendance")
		return Verdict{}, ErrStorage("failed to record attendance", err)
	}
	s.metrics.CheckIn(string(status), time.Since(start))

	return Verdict{
		OK:             true,
		Inside:         inside,
		Status:         status,
		DistanceMeters: geo.RoundTo(distance, 2),
		Message:        verdictMessage(inside, distance),
		UserLat:        lat,
		UserLng:        lng,
		OfficeLat:      z.CenterLat,
		OfficeLng:      z.CenterLng,
		RadiusMeters:   z.RadiusMeters,
		EventID:        ev.ID,
		CreatedAt:      ev.CreatedAt,
	}, nil
}

// GET /admin/attendances
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	events, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		s.metrics.StorageError("attendance")
		return nil, ErrStorage("failed to list attendance", err)
	}
	return events, nil
}

// Dashboard は管理画面の1画面分（直近一覧・総件数・現在のエリア）
func (s *Service) Dashboard(ctx context.Context, limit int) (DashboardResponse, error) {
	events, err := s.ListRecent(ctx, limit)
	if err != nil {
		return DashboardResponse{}, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		s.metrics.StorageError("attendance")
		return DashboardResponse{}, ErrStorage("failed to count attendance", err)
	}
	z, err := s.zones.Get(ctx)
	if err != nil {
		s.metrics.StorageError("attendance")
		return DashboardResponse{}, ErrStorage("failed to read office zone", err)
	}

	out := DashboardResponse{
		Records: make([]EventResponse, 0, len(events)),
		Total:   total,
		Zone:    ZoneSnapshot{Lat: z.CenterLat, Lng: z.CenterLng, RadiusMeters: z.RadiusMeters},
	}
	for i := 0; i < len(events); i++ {
		out.Records = append(out.Records, events[i].toDTO())
	}
	return out, nil
}

// POST /admin/attendances/export
// 返すスナップショットと削除した行は常に一致する。途中で失敗した場合は何も消えない。
func (s *Service) ExportAndClear(ctx context.Context, exportedBy string) (ExportBatch, error) {
	now := s.clock.Now()
	id, err := s.id.New(now)
	if err != nil {
		return ExportBatch{}, err
	}
	batch := ExportBatch{
		ULID:       id,
		ExportedBy: exportedBy,
		ExportedAt: now,
	}
	out, err := s.store.ExportAndClear(ctx, batch, renderCSV)
	if err != nil {
		s.metrics.StorageError("attendance")
		return ExportBatch{}, ErrStorage("failed to export attendance", err)
	}
	s.metrics.Exported(out.RowCount)
	return out, nil
}

// GET /admin/exports
func (s *Service) ListExports(ctx context.Context, limit int) ([]ExportBatch, error) {
	if limit <= 0 || limit > DefaultExportLimit {
		limit = DefaultExportLimit
	}
	out, err := s.store.ListExports(ctx, limit)
	if err != nil {
		return nil, ErrStorage("failed to list exports", err)
	}
	return out, nil
}

// GET /admin/exports/:export_ulid
func (s *Service) GetExport(ctx context.Context, id string) (ExportBatch, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return ExportBatch{}, ErrInvalid("export_ulid is malformed")
	}
	b, err := s.store.GetExport(ctx, id)
	if errors.Is(err, ErrExportNotFound) {
		return ExportBatch{}, ErrNotFound("export not found")
	}
	if err != nil {
		return ExportBatch{}, ErrStorage("failed to read export", err)
	}
	return b, nil
}

// ===== helpers =====

// validateIdentity: CSV はクォートしないので区切り文字・改行・制御文字は受けない。
// 長さは attendance_events の列幅（文字数）に合わせる。
func validateIdentity(empID, empName string) *APIError {
	if utf8.RuneCountInString(empID) > MaxEmployeeIDLen {
		return ErrInvalid(fmt.Sprintf("Employee ID must be at most %d characters.", MaxEmployeeIDLen))
	}
	if utf8.RuneCountInString(empName) > MaxEmployeeNameLen {
		return ErrInvalid(fmt.Sprintf("Employee Name must be at most %d characters.", MaxEmployeeNameLen))
	}
	if !plainText(empID) || !plainText(empName) {
		return ErrInvalid("Employee ID and Name must not contain commas or control characters.")
	}
	return nil
}

func plainText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == ',' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// parseCoordinate: JSON 数値 or 数値文字列を受ける。NaN/Inf は不可。
func parseCoordinate(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	return f, !math.IsNaN(f) && !math.IsInf(f, 0)
}

func verdictMessage(inside bool, distance float64) string {
	if inside {
		return fmt.Sprintf("Attendance marked as PRESENT. Distance: %.2f m", distance)
	}
	return fmt.Sprintf("You are OUTSIDE the allowed area. Distance: %.2f m", distance)
}
