package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dailystatus/internal/db"
	"github.com/dailystatus/internal/form"
	"github.com/dailystatus/internal/middleware"
)

func setupHandlerTest(t *testing.T) (*API, *gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := NewAPI(gdb, nil)
	r := gin.New()
	r.GET("/healthz", api.HealthCheck)
	r.GET("/employee-by-id/:id", api.GetEmployeeByID)
	r.POST("/submit-status", api.SubmitStatus)
	r.GET("/export/daily-status", api.ExportDailyStatus)
	return api, r, gdb
}

func submitPayload() map[string]interface{} {
	return map[string]interface{}{
		"Employee_Id":                  "EMP-10452",
		"Full_Name":                    "Asha Rao",
		"Designation_Role":             "Data Engineer",
		"Department":                   "Data Engineering",
		"Employment_Type":              "Full-time",
		"Shift_Type":                   "General",
		"Work_Date":                    "2026-03-02",
		"Work_Status":                  "On Track",
		"Hours_Worked":                 "10.5",
		"Overtime_Hours":               "1.50",
		"Leave_Type":                   "None",
		"Active_Projects_Count":        "2",
		"Project_Manager_Name":         "Priya Nair",
		"Project_Names":                "Apollo, Falcon",
		"Task_Type":                    "Client Project",
		"Task_Summary":                 "Migrated the ingestion jobs",
		"Has_Blockers":                 "No",
		"Issue_Dependency_Description": "",
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetEmployeeByID(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)
	if err := gdb.Create(&db.Employee{
		EmployeeID:      "EMP-10452",
		FullName:        "Asha Rao",
		DesignationRole: "Data Engineer",
		Department:      "Data Engineering",
	}).Error; err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employee-by-id/EMP-10452", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	want := map[string]string{
		"Employee_Id":      "EMP-10452",
		"Full_Name":        "Asha Rao",
		"Designation_Role": "Data Engineer",
		"Department":       "Data Engineering",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("expected %s=%q, got %q", k, v, got[k])
		}
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employee-by-id/EMP-0000", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Employee not found") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestGetEmployeeByIDDatabaseFailure(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.Close()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employee-by-id/EMP-10452", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Lookup failed") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestSubmitStatus(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)

	rr := postJSON(t, r, "/submit-status", submitPayload())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Saved successfully") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}

	var stored db.DailyStatus
	if err := gdb.First(&stored).Error; err != nil {
		t.Fatalf("expected stored record: %v", err)
	}
	if stored.IssueDependencyDescription != nil {
		t.Fatal("blank issue description should be stored as NULL")
	}
}

func TestSubmitStatusValidationFailure(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)

	payload := submitPayload()
	payload["Has_Blockers"] = "Yes"
	payload["Hours_Worked"] = "7"

	rr := postJSON(t, r, "/submit-status", payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var body struct {
		Error   string       `json:"error"`
		Missing []form.Field `json:"missing"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	want := []form.Field{form.FieldShortHoursReason, form.FieldIssueDescription}
	if len(body.Missing) != len(want) {
		t.Fatalf("expected missing %v, got %v", want, body.Missing)
	}
	for i := range want {
		if body.Missing[i] != want[i] {
			t.Fatalf("expected missing %v, got %v", want, body.Missing)
		}
	}

	var count int64
	gdb.Model(&db.DailyStatus{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows, got %d", count)
	}
}

func TestSubmitStatusRejectsMarkup(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)

	payload := submitPayload()
	payload["Full_Name"] = "Asha <b>Rao</b>"
	payload["Project_Names"] = "Apollo <v2>"

	rr := postJSON(t, r, "/submit-status", payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Invalid map[form.Field]string `json:"invalid"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	for _, f := range []form.Field{form.FieldFullName, form.FieldProjectNames} {
		if body.Invalid[f] == "" {
			t.Fatalf("expected %s in invalid, got %v", f, body.Invalid)
		}
	}

	var count int64
	gdb.Model(&db.DailyStatus{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows, got %d", count)
	}
}

func TestSubmitStatusMalformedBody(t *testing.T) {
	_, r, _ := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/submit-status", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSubmitStatusInsertFailure(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)
	if err := gdb.Migrator().DropTable(&db.DailyStatus{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	rr := postJSON(t, r, "/submit-status", submitPayload())
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Database insert failed") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestExportDailyStatus(t *testing.T) {
	_, r, _ := setupHandlerTest(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export/daily-status", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any submission, got %d", rr.Code)
	}

	if rr := postJSON(t, r, "/submit-status", submitPayload()); rr.Code != http.StatusOK {
		t.Fatalf("submit failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export/daily-status?from=2026-03-01&to=2026-03-31", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected content type %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("unexpected disposition %q", rr.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Daily Status")
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", len(rows), err)
	}

	for _, query := range []string{"?from=03/01/2026", "?from=2026-03-05&to=2026-03-01"} {
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/export/daily-status"+query, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rr.Code)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	_, r, gdb := setupHandlerTest(t)

	if err := gdb.Create(&db.Employee{EmployeeID: "EMP-10452", FullName: "Asha Rao"}).Error; err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Status    string `json:"status"`
		Driver    string `json:"driver"`
		Employees int64  `json:"employees"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" || body.Driver != "sqlite" || body.Employees != 1 {
		t.Fatalf("unexpected health body: %+v", body)
	}

	sqlDB, _ := gdb.DB()
	sqlDB.Close()

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"stage":"ping"`) {
		t.Fatalf("expected failing stage in body, got %s", rr.Body.String())
	}
}

func TestHealthCheckLogsRequestID(t *testing.T) {
	_, _, gdb := setupHandlerTest(t)
	core, logs := observer.New(zapcore.WarnLevel)

	api := NewAPI(gdb, zap.New(core))
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/healthz", api.HealthCheck)

	sqlDB, _ := gdb.DB()
	sqlDB.Close()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	entries := logs.FilterMessage("health check failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "trace-42" || fields["stage"] != "ping" {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}
