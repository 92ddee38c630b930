package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sakshamspr/MediLink/internal/dates"
	"github.com/sakshamspr/MediLink/internal/models"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// ConfirmationRequest is the payload the dispatch endpoint accepts and the
// booking flow produces internally. AppointmentDate arrives pre-formatted
// for humans (Today / Tomorrow / long form).
type ConfirmationRequest struct {
	DoctorName      string `json:"doctorName" validate:"required"`
	PatientEmail    string `json:"patientEmail" validate:"required,email"`
	PatientName     string `json:"patientName" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	AppointmentTime string `json:"appointmentTime" validate:"required"`
	ConsultationFee int    `json:"consultationFee" validate:"gte=0"`
}

type BrevoClient struct {
	apiKey      string
	senderEmail string
	senderName  string
	adminEmail  string
	sandbox     bool
	endpoint    string
	location    *time.Location
	httpClient  *http.Client
}

func NewBrevoClient(apiKey, senderEmail, senderName, adminEmail string, sandbox bool, location *time.Location) *BrevoClient {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(senderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		adminEmail:  adminEmail,
		sandbox:     sandbox,
		endpoint:    defaultBrevoEndpoint,
		location:    location,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// SendAppointmentConfirmation is the booking flow entry point: it formats the
// stored date for display and dispatches both the patient and admin copies.
func (c *BrevoClient) SendAppointmentConfirmation(ctx context.Context, appointment models.Appointment, doctor models.Doctor) error {
	if c == nil {
		return errors.New("brevo client is nil")
	}

	friendlyDate, err := dates.FormatFriendly(appointment.AppointmentDate, c.location, time.Now())
	if err != nil {
		friendlyDate = appointment.AppointmentDate
	}

	return c.SendConfirmationEmails(ctx, ConfirmationRequest{
		DoctorName:      doctor.Name,
		PatientEmail:    appointment.PatientEmail,
		PatientName:     appointment.PatientName,
		AppointmentDate: friendlyDate,
		AppointmentTime: appointment.AppointmentTime,
		ConsultationFee: doctor.ConsultationFee,
	})
}

// SendConfirmationEmails renders and sends the patient confirmation and, when
// an admin address is configured, the admin notification copy.
func (c *BrevoClient) SendConfirmationEmails(ctx context.Context, req ConfirmationRequest) error {
	if c == nil {
		return errors.New("brevo client is nil")
	}

	patientHTML, err := buildPatientConfirmationHTML(req)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Appointment Confirmed with %s", req.DoctorName)
	if _, err := c.sendHTML(ctx, req.PatientEmail, req.PatientName, subject, patientHTML); err != nil {
		return err
	}

	if c.adminEmail == "" {
		return nil
	}
	adminHTML, err := buildAdminNotificationHTML(req)
	if err != nil {
		return err
	}
	adminSubject := fmt.Sprintf("New Appointment Booked - %s", req.DoctorName)
	if _, err := c.sendHTML(ctx, c.adminEmail, "Admin", adminSubject, adminHTML); err != nil {
		return err
	}
	return nil
}

func (c *BrevoClient) sendHTML(ctx context.Context, toEmail, toName, subject, htmlBody string) (string, error) {
	if strings.TrimSpace(toEmail) == "" {
		return "", errors.New("missing recipient email")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("missing subject")
	}
	if strings.TrimSpace(htmlBody) == "" {
		return "", errors.New("missing html body")
	}

	payload := brevoSendRequest{
		Sender: brevoSender{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []brevoRecipient{
			{
				Email: toEmail,
				Name:  toName,
			},
		},
		Subject:     subject,
		HtmlContent: htmlBody,
	}
	if c.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

type brevoSendRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
