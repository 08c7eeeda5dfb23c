package api

import (
	"bytes"
	"context"
	"delivery-assign-service/internal/adapters/repositories"
	"delivery-assign-service/internal/adapters/routing"
	"delivery-assign-service/internal/api/handlers"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/ports"
	"delivery-assign-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"
)

const ordersCSV = `order_id,driver_name,Driver Shift,Time Slot,date_added,Pickup Lat,Pickup Lng,Delivery lat,Delivery lng
1001,Ali,9AM-12PM,9AM-12PM,2026-03-02 07:00:00,25.2000,55.2700,25.2100,55.2800
1002,Ali,9AM-12PM,9AM-12PM,2026-03-02 07:05:00,25.2000,55.2700,25.2200,55.2900
`

type recordingPublisher struct {
	mu   sync.Mutex
	runs []string
}

func (p *recordingPublisher) PublishRunCompleted(_ context.Context, run *ports.AssignmentRun) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, run.ID)
	return nil
}

type testServer struct {
	handler http.Handler
	events  *recordingPublisher
}

func newTestServer(t *testing.T, checks map[string]handlers.HealthCheck) testServer {
	t.Helper()

	provider, err := routing.NewHaversineProvider(30, 1.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine, err := services.NewOrchestrator(services.DefaultConfig(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := &recordingPublisher{}
	h := NewRouter(Dependencies{
		Engine:       engine,
		Runs:         repositories.NewMemoryRunRepository(),
		Events:       events,
		HealthChecks: checks,
	})
	return testServer{handler: h, events: events}
}

func uploadRequest(t *testing.T, target, filename, body string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(part, body); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type runBody struct {
	RunID       string `json:"run_id"`
	Warning     string `json:"warning"`
	Assignments []struct {
		OrderID       string   `json:"order_id"`
		DriverName    string   `json:"driver_name"`
		TravelMinutes *float64 `json:"travel_time_min"`
		ArrivalClock  string   `json:"arrival_clock"`
		SLAStatus     string   `json:"sla_status"`
	} `json:"assignments"`
	Summary ports.RunSummary `json:"summary"`
}

func decodeRun(t *testing.T, rr *httptest.ResponseRecorder) runBody {
	t.Helper()
	var body runBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestCreateAssignmentsAndFetchRun(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, uploadRequest(t, "/assignments", "orders.csv", ordersCSV))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	created := decodeRun(t, rr)
	if created.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(created.Assignments) != 2 || created.Warning != "" {
		t.Fatalf("body = %+v", created)
	}
	for _, a := range created.Assignments {
		if a.DriverName != "Ali" || a.SLAStatus != "Success" || a.TravelMinutes == nil || a.ArrivalClock == "" {
			t.Fatalf("assignment = %+v", a)
		}
	}
	if created.Summary.Orders != 2 || created.Summary.SLASuccess != 2 {
		t.Fatalf("summary = %+v", created.Summary)
	}
	if len(srv.events.runs) != 1 || srv.events.runs[0] != created.RunID {
		t.Fatalf("published = %v", srv.events.runs)
	}

	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/runs/"+created.RunID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get run status = %d", rr.Code)
	}
	fetched := decodeRun(t, rr)
	if fetched.RunID != created.RunID || len(fetched.Assignments) != 2 {
		t.Fatalf("fetched = %+v", fetched)
	}
	if fetched.Assignments[0].OrderID != created.Assignments[0].OrderID {
		t.Fatal("stored run does not preserve record order")
	}

	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/runs/"+created.RunID+"/export", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	f, err := excelize.OpenReader(rr.Body)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
}

func TestCreateAssignmentsAsWorkbook(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, uploadRequest(t, "/assignments?format=xlsx", "orders.csv", ordersCSV))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Run-ID") == "" {
		t.Fatal("expected X-Run-ID header")
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("content disposition = %q", rr.Header().Get("Content-Disposition"))
	}
}

func TestCreateAssignmentsEmptyResult(t *testing.T) {
	srv := newTestServer(t, nil)
	body := strings.ReplaceAll(ordersCSV, "9AM-12PM,9AM-12PM", "9AM-12PM,sometime")

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, uploadRequest(t, "/assignments", "orders.csv", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	res := decodeRun(t, rr)
	if res.Warning != "no assignments made" {
		t.Fatalf("warning = %q", res.Warning)
	}
	if len(res.Assignments) != 0 || res.Summary.UnknownSlots != 1 {
		t.Fatalf("body = %+v", res)
	}
}

func TestCreateAssignmentsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, uploadRequest(t, "/assignments", "orders.csv", "order_id,driver_name\n1,Ali\n"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader("x")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status without file = %d, want 400", rr.Code)
	}
	if len(srv.events.runs) != 0 {
		t.Fatal("no event expected for rejected uploads")
	}
}

func TestMethodAndNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assignments", nil))
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("status = %d allow = %q", rr.Code, rr.Header().Get("Allow"))
	}

	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/runs/does-not-exist", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, map[string]handlers.HealthCheck{
		"cache": func(context.Context) error { return nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id = %q", rr.Header().Get("X-Request-ID"))
	}

	srv = newTestServer(t, map[string]handlers.HealthCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})
	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "connection refused") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RegisterDefault()
	srv := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, uploadRequest(t, "/assignments", "orders.csv", ordersCSV))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	for _, name := range []string{"assignment_runs_total", "assignments_total", "http_requests_total"} {
		if !strings.Contains(rr.Body.String(), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
