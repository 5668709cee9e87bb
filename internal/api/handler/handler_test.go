package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/response"
	"github.com/jfuerlinger/DrugManagement/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGinValidators(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock SlotService ──

type mockSlotService struct {
	dayResult   *dto.DaySlotsResponse
	rangeResult []dto.DaySlotsResponse
	queryErr    error
	queriedFrom time.Time
	queriedTo   time.Time
	bookResult  *dto.BookingResponse
	bookErr     error
	bookedKey   service.SlotKey
	bookedRaw   json.RawMessage
	getResult   *dto.BookingResponse
	getErr      error
	icsResult   []byte
	icsErr      error
	seedResult  *dto.SeedResponse
	seedErr     error
	clearResult *dto.ClearResponse
	clearErr    error
	seedCalls   int
	clearCalls  int
}

func (m *mockSlotService) QueryAvailability(_ context.Context, from, to time.Time) ([]dto.DaySlotsResponse, error) {
	m.queriedFrom, m.queriedTo = from, to
	return m.rangeResult, m.queryErr
}
func (m *mockSlotService) QueryDay(_ context.Context, day time.Time) (*dto.DaySlotsResponse, error) {
	m.queriedFrom, m.queriedTo = day, day
	return m.dayResult, m.queryErr
}
func (m *mockSlotService) BookSlot(_ context.Context, key service.SlotKey, requester json.RawMessage) (*dto.BookingResponse, error) {
	m.bookedKey, m.bookedRaw = key, requester
	return m.bookResult, m.bookErr
}
func (m *mockSlotService) GetBooking(_ context.Context, _ string) (*dto.BookingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockSlotService) BookingCalendar(_ context.Context, _ string) ([]byte, error) {
	return m.icsResult, m.icsErr
}
func (m *mockSlotService) SeedSlots(_ context.Context, _, _ time.Time) (*dto.SeedResponse, error) {
	return m.seedResult, m.seedErr
}
func (m *mockSlotService) SeedCurrentYear(_ context.Context) (*dto.SeedResponse, error) {
	m.seedCalls++
	return m.seedResult, m.seedErr
}
func (m *mockSlotService) SyncHorizon(_ context.Context, _ int) (*dto.SeedResponse, error) {
	return m.seedResult, m.seedErr
}
func (m *mockSlotService) ClearSlots(_ context.Context) (*dto.ClearResponse, error) {
	m.clearCalls++
	return m.clearResult, m.clearErr
}

// ── Mock DrugService ──

type mockDrugService struct {
	result    *dto.DrugResponse
	list      []dto.DrugResponse
	total     int64
	err       error
	lastQuery *dto.DrugListRequest
}

func (m *mockDrugService) Create(_ context.Context, _ *dto.CreateDrugRequest) (*dto.DrugResponse, error) {
	return m.result, m.err
}
func (m *mockDrugService) GetByID(_ context.Context, _ string) (*dto.DrugResponse, error) {
	return m.result, m.err
}
func (m *mockDrugService) List(_ context.Context, req *dto.DrugListRequest) ([]dto.DrugResponse, int64, error) {
	m.lastQuery = req
	return m.list, m.total, m.err
}
func (m *mockDrugService) Update(_ context.Context, _ string, _ *dto.UpdateDrugRequest) (*dto.DrugResponse, error) {
	return m.result, m.err
}
func (m *mockDrugService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	result *dto.ReportResponse
	file   *dto.ReportFile
	err    error
}

func (m *mockReportService) Generate(_ context.Context) (*dto.ReportResponse, error) {
	return m.result, m.err
}
func (m *mockReportService) Render(_ context.Context, _ string) error { return m.err }
func (m *mockReportService) Status(_ context.Context, _ string) (*dto.ReportResponse, error) {
	return m.result, m.err
}
func (m *mockReportService) Download(_ context.Context, _ string) (*dto.ReportFile, error) {
	return m.file, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, route, target string, body io.Reader, h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r := gin.New()
	r.Handle(method, route, h)
	r.ServeHTTP(w, req)
	return w
}

func validBookRequest() dto.BookSlotRequest {
	return dto.BookSlotRequest{
		Date:      "2025-09-01",
		StartTime: "09:00",
		Requester: dto.RequesterInfo{
			Firstname: "Anna",
			Lastname:  "Huber",
			SVNR:      "1237010180",
			Email:     "anna.huber@example.at",
			Phone:     "+43 664 1234567",
		},
	}
}

// ═══════════════════════════════════════════════════════════
// SlotHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSlotHandler_ListSlots_Day(t *testing.T) {
	mock := &mockSlotService{dayResult: &dto.DaySlotsResponse{Date: "2025-09-01"}}
	h := NewSlotHandler(mock)

	w := serve("GET", "/slots", "/slots?day=2025-09-01", nil, h.ListSlots)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := mock.queriedFrom.Format(service.DateLayout); got != "2025-09-01" {
		t.Errorf("expected query for 2025-09-01, got %s", got)
	}
}

func TestSlotHandler_ListSlots_Range(t *testing.T) {
	mock := &mockSlotService{rangeResult: []dto.DaySlotsResponse{{Date: "2025-09-01"}, {Date: "2025-09-02"}}}
	h := NewSlotHandler(mock)

	w := serve("GET", "/slots", "/slots?from=2025-09-01&to=2025-09-07", nil, h.ListSlots)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.queriedTo.Format(service.DateLayout) != "2025-09-07" {
		t.Errorf("expected to=2025-09-07, got %s", mock.queriedTo)
	}
}

func TestSlotHandler_ListSlots_BadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"无参数", "/slots"},
		{"只有 from", "/slots?from=2025-09-01"},
		{"日期格式错误", "/slots?day=01.09.2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSlotHandler(&mockSlotService{})
			w := serve("GET", "/slots", tt.target, nil, h.ListSlots)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestSlotHandler_ListSlots_RangeTooLarge(t *testing.T) {
	h := NewSlotHandler(&mockSlotService{queryErr: service.ErrRangeTooLarge})

	w := serve("GET", "/slots", "/slots?from=2025-01-01&to=2027-01-01", nil, h.ListSlots)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20003 {
		t.Errorf("expected code 20003, got %d", resp.Code)
	}
}

func TestSlotHandler_BookSlot_Success(t *testing.T) {
	mock := &mockSlotService{bookResult: &dto.BookingResponse{ID: "booking-1", Date: "2025-09-01", StartTime: "09:00"}}
	h := NewSlotHandler(mock)

	w := serve("POST", "/bookings", "/bookings", jsonBody(validBookRequest()), h.BookSlot)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.bookedKey != (service.SlotKey{Date: "2025-09-01", StartTime: "09:00"}) {
		t.Errorf("unexpected slot key %+v", mock.bookedKey)
	}
	var requester dto.RequesterInfo
	if err := json.Unmarshal(mock.bookedRaw, &requester); err != nil || requester.SVNR != "1237010180" {
		t.Errorf("requester should be forwarded as JSON, got %s", mock.bookedRaw)
	}
}

func TestSlotHandler_BookSlot_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.BookSlotRequest)
	}{
		{"无效 SVNR", func(r *dto.BookSlotRequest) { r.Requester.SVNR = "1234010180" }},
		{"无效电话", func(r *dto.BookSlotRequest) { r.Requester.Phone = "12" }},
		{"无效邮箱", func(r *dto.BookSlotRequest) { r.Requester.Email = "not-an-email" }},
		{"缺少姓名", func(r *dto.BookSlotRequest) { r.Requester.Firstname = "" }},
		{"时间格式错误", func(r *dto.BookSlotRequest) { r.StartTime = "9 Uhr" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSlotService{}
			h := NewSlotHandler(mock)
			req := validBookRequest()
			tt.mutate(&req)

			w := serve("POST", "/bookings", "/bookings", jsonBody(req), h.BookSlot)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if mock.bookedRaw != nil {
				t.Error("service must not be called on invalid input")
			}
		})
	}
}

func TestSlotHandler_BookSlot_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"时间段不存在", service.ErrSlotNotFound, http.StatusNotFound, 20001},
		{"已被预约", service.ErrSlotAlreadyBooked, http.StatusConflict, 20002},
		{"存储失败", errors.New("db down"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSlotHandler(&mockSlotService{bookErr: tt.err})

			w := serve("POST", "/bookings", "/bookings", jsonBody(validBookRequest()), h.BookSlot)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestSlotHandler_GetBooking_NotFound(t *testing.T) {
	h := NewSlotHandler(&mockSlotService{getErr: service.ErrBookingNotFound})

	w := serve("GET", "/bookings/:id", "/bookings/missing", nil, h.GetBooking)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSlotHandler_GetBookingCalendar(t *testing.T) {
	h := NewSlotHandler(&mockSlotService{icsResult: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")})

	w := serve("GET", "/bookings/:id/ics", "/bookings/booking-1/ics", nil, h.GetBookingCalendar)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="booking-booking-1.ics"` {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

// ═══════════════════════════════════════════════════════════
// DrugHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDrugHandler_ListDrugs_Pagination(t *testing.T) {
	mock := &mockDrugService{list: []dto.DrugResponse{{ID: "drug-1"}}, total: 41}
	h := NewDrugHandler(mock)

	w := serve("GET", "/drugs", "/drugs?page=2&page_size=20", nil, h.ListDrugs)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 2 {
		t.Errorf("unexpected pagination %+v", body.Data.Pagination)
	}
}

func TestDrugHandler_CreateDrug_BadRequest(t *testing.T) {
	h := NewDrugHandler(&mockDrugService{})

	w := serve("POST", "/drugs", "/drugs", jsonBody(map[string]string{"metadata_id": "not-a-uuid"}), h.CreateDrug)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDrugHandler_UpdateDrug_VersionConflict(t *testing.T) {
	h := NewDrugHandler(&mockDrugService{err: service.ErrDrugVersionConflict})

	w := serve("PUT", "/drugs/:id", "/drugs/drug-1", jsonBody(map[string]int{"version": 1}), h.UpdateDrug)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 21002 {
		t.Errorf("expected code 21002, got %d", resp.Code)
	}
}

func TestDrugHandler_GetDrug_ErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrDrugNotFound, http.StatusNotFound, 21001},
		{service.ErrShopNotFound, http.StatusNotFound, 25001},
		{service.ErrPackageSizeMismatch, http.StatusBadRequest, 21003},
	}
	for _, tt := range tests {
		h := NewDrugHandler(&mockDrugService{err: tt.err})
		w := serve("GET", "/drugs/:id", "/drugs/drug-1", nil, h.GetDrug)
		if w.Code != tt.wantHTTP {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.wantHTTP, w.Code)
		}
		if resp := parseResponse(w); resp.Code != tt.wantCode {
			t.Errorf("%v: expected code %d, got %d", tt.err, tt.wantCode, resp.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_Generate_Accepted(t *testing.T) {
	h := NewReportHandler(&mockReportService{result: &dto.ReportResponse{ID: "report-1", Status: "pending"}})

	w := serve("POST", "/reports/drugs/generate", "/reports/drugs/generate", nil, h.GenerateDrugReport)

	if w.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", w.Code)
	}
}

func TestReportHandler_Download(t *testing.T) {
	h := NewReportHandler(&mockReportService{file: &dto.ReportFile{FileName: "drugs.xlsx", Content: []byte("PK")}})

	w := serve("GET", "/reports/drugs/download/:id", "/reports/drugs/download/report-1", nil, h.DownloadDrugReport)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if w.Body.String() != "PK" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestReportHandler_Download_NotReady(t *testing.T) {
	h := NewReportHandler(&mockReportService{err: service.ErrReportNotReady})

	w := serve("GET", "/reports/drugs/download/:id", "/reports/drugs/download/report-1", nil, h.DownloadDrugReport)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 26002 {
		t.Errorf("expected code 26002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ManagementHandler Tests
// ═══════════════════════════════════════════════════════════

func TestManagementHandler_MigrateTables(t *testing.T) {
	called := false
	h := NewManagementHandler(&mockSlotService{}, func(context.Context) (*dto.MigrationResponse, error) {
		called = true
		return &dto.MigrationResponse{Version: 3}, nil
	})

	w := serve("PATCH", "/management/tables", "/management/tables", nil, h.MigrateTables)

	if w.Code != http.StatusOK || !called {
		t.Errorf("expected 200 and migrator call, got %d (called=%v)", w.Code, called)
	}
}

func TestManagementHandler_MigrateTables_Unavailable(t *testing.T) {
	h := NewManagementHandler(&mockSlotService{}, nil)

	w := serve("PATCH", "/management/tables", "/management/tables", nil, h.MigrateTables)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", w.Code)
	}
}

func TestManagementHandler_SeedAndClear(t *testing.T) {
	mock := &mockSlotService{
		seedResult:  &dto.SeedResponse{From: "2025-01-01", To: "2025-12-31", Inserted: 3640},
		clearResult: &dto.ClearResponse{Bookings: 1, Slots: 3640},
	}
	h := NewManagementHandler(mock, nil)

	if w := serve("POST", "/management/data", "/management/data", nil, h.SeedData); w.Code != http.StatusCreated {
		t.Errorf("seed: expected 201, got %d", w.Code)
	}
	if w := serve("DELETE", "/management/data", "/management/data", nil, h.ClearData); w.Code != http.StatusOK {
		t.Errorf("clear: expected 200, got %d", w.Code)
	}
	if mock.seedCalls != 1 || mock.clearCalls != 1 {
		t.Errorf("expected one seed and one clear call, got %d/%d", mock.seedCalls, mock.clearCalls)
	}
}
