package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dailystatus/internal/form"
)

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func completeRecord() form.Record {
	snap, _ := form.Replay(form.NewSnapshot(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		form.Edit{Field: form.FieldEmployeeID, Value: "EMP-10452"},
		form.Edit{Field: form.FieldFullName, Value: "Asha Rao"},
		form.Edit{Field: form.FieldRole, Value: "Data Engineer"},
		form.Edit{Field: form.FieldDepartment, Value: "Data Engineering"},
		form.Edit{Field: form.FieldHoursWorked, Value: "10.5"},
		form.Edit{Field: form.FieldProjectNames, Value: "Apollo, Falcon"},
		form.Edit{Field: form.FieldProjectManagerName, Value: "Priya Nair"},
		form.Edit{Field: form.FieldTaskSummary, Value: "Migrated the ingestion jobs"},
	)
	return snap.Record
}

func TestSubmitBlocksIncompleteRecordWithoutNetwork(t *testing.T) {
	called := false
	c := New("http://example.test", time.Second, nil)
	c.SetHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
	}))

	record := completeRecord()
	record.HoursWorked = "7"

	_, err := c.Submit(context.Background(), record)
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if called {
		t.Fatal("no request should be sent for an incomplete record")
	}
}

func TestSubmitEchoesRecord(t *testing.T) {
	var received form.Record
	c := New("http://example.test/", time.Second, nil)
	c.newLogID = func() string { return "ABC123XYZ" }
	c.SetHTTPClient(doerFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.String() != "http://example.test/submit-status" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL)
		}
		if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"message":"Saved successfully"}`), nil
	}))

	record := completeRecord()
	confirmation, err := c.Submit(context.Background(), record)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if confirmation.LogID != "ABC123XYZ" || confirmation.Message != "Saved successfully" {
		t.Fatalf("unexpected confirmation: %+v", confirmation)
	}
	if confirmation.Record != record {
		t.Fatalf("confirmation should echo the record unchanged:\n%+v\n%+v", confirmation.Record, record)
	}
	if received != record {
		t.Fatalf("request body differs from record:\n%+v\n%+v", received, record)
	}
}

func TestSubmitServerFailure(t *testing.T) {
	c := New("http://example.test", time.Second, nil)
	c.SetHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error":"Database insert failed"}`), nil
	}))

	_, err := c.Submit(context.Background(), completeRecord())
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.StatusCode != http.StatusInternalServerError || subErr.Message != "Database insert failed" {
		t.Fatalf("unexpected submission error: %+v", subErr)
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	boom := errors.New("connection refused")
	attempts := 0
	c := New("http://example.test", time.Second, nil)
	c.SetHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		attempts++
		return nil, boom
	}))

	_, err := c.Submit(context.Background(), completeRecord())
	var subErr *SubmissionError
	if !errors.As(err, &subErr) || subErr.StatusCode != 0 {
		t.Fatalf("expected network SubmissionError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("expected the network error to be wrapped")
	}
	if attempts != 1 {
		t.Fatalf("submission must not be retried, got %d attempts", attempts)
	}
}

func TestLookupEmployee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/employee-by-id/EMP-1":
			w.Write([]byte(`{"Employee_Id":"emp-1","Full_Name":"Ravi Kumar","Designation_Role":"Data Analyst","Department":"Data Analytics"}`))
		case "/employee-by-id/EMP-500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Lookup failed"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Employee not found"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)

	result, ok, err := c.LookupEmployee(context.Background(), " EMP-1 ")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	if result.EmployeeID != "EMP-1" || result.FullName != "Ravi Kumar" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if _, ok, err := c.LookupEmployee(context.Background(), "EMP-404"); ok || err != nil {
		t.Fatalf("expected silent miss, got ok=%v err=%v", ok, err)
	}

	if _, _, err := c.LookupEmployee(context.Background(), "EMP-500"); err == nil || !strings.Contains(err.Error(), "Lookup failed") {
		t.Fatalf("expected lookup failure, got %v", err)
	}
}

func TestNewLogIDFormat(t *testing.T) {
	id := newLogID()
	if len(id) != 9 || strings.ToUpper(id) != id {
		t.Fatalf("unexpected log id %q", id)
	}
}
