package notifications

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sakshamspr/MediLink/internal/transport"
	"github.com/sakshamspr/MediLink/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, endpoint string) *BrevoClient {
	t.Helper()
	c := NewBrevoClient("key", "noreply@medilink.example", "MediLink", "admin@medilink.example", false, time.UTC)
	if c == nil {
		t.Fatalf("client construction failed")
	}
	c.endpoint = endpoint
	return c
}

const confirmationPayload = `{
	"doctorName": "Dr. Mehta",
	"patientEmail": "asha@example.com",
	"patientName": "Asha Rao",
	"appointmentDate": "Tomorrow",
	"appointmentTime": "14:00",
	"consultationFee": 500
}`

func TestSendConfirmationDispatchesBothEmails(t *testing.T) {
	var recipients []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode brevo payload: %v", err)
		}
		for _, to := range payload.To {
			recipients = append(recipients, to.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messageId":"msg-1"}`))
	}))
	defer server.Close()

	h := NewHandler(testClient(t, server.URL), validation.New(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/appointment-confirmation", strings.NewReader(confirmationPayload))
	rec := httptest.NewRecorder()
	h.SendConfirmation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result transport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success || result.Error != "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(recipients) != 2 || recipients[0] != "asha@example.com" || recipients[1] != "admin@medilink.example" {
		t.Fatalf("expected patient then admin copy, got %v", recipients)
	}
}

func TestSendConfirmationRejectsBadPayload(t *testing.T) {
	h := NewHandler(testClient(t, "http://127.0.0.1:0"), validation.New(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/appointment-confirmation", strings.NewReader(`{"doctorName":""}`))
	rec := httptest.NewRecorder()
	h.SendConfirmation(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var result transport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success || result.Error == "" {
		t.Fatalf("expected failure envelope, got %+v", result)
	}
}

func TestSendConfirmationWithoutClient(t *testing.T) {
	h := NewHandler(nil, validation.New(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/appointment-confirmation", strings.NewReader(confirmationPayload))
	rec := httptest.NewRecorder()
	h.SendConfirmation(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var result transport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure envelope without a configured mailer")
	}
}

func TestBrevoFailureSurfacesAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	h := NewHandler(testClient(t, server.URL), validation.New(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/appointment-confirmation", strings.NewReader(confirmationPayload))
	rec := httptest.NewRecorder()
	h.SendConfirmation(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var result transport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure envelope on upstream error")
	}
}
