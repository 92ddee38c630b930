package notifications

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakshamspr/MediLink/internal/httpx"
	"github.com/sakshamspr/MediLink/internal/middleware"
	"github.com/sakshamspr/MediLink/internal/transport"
	"github.com/sakshamspr/MediLink/internal/validation"
)

// Handler exposes the confirmation dispatch endpoint. It is callable from
// any origin (the CORS layer lists it as an open path) and answers with the
// {success, error} envelope regardless of what went wrong.
type Handler struct {
	client *BrevoClient
	val    *validation.Validator
	log    *slog.Logger
}

func NewHandler(client *BrevoClient, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		client: client,
		val:    val,
		log:    log,
	}
}

func (h *Handler) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ConfirmationRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("notification send: invalid json")
		transport.WriteResult(w, http.StatusInternalServerError, errors.New("invalid json"))
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("notification send: validation error")
		transport.WriteResult(w, http.StatusInternalServerError, errors.New("invalid payload"))
		return
	}

	if h.client == nil {
		log.Warn("notification send: mailer not configured")
		transport.WriteResult(w, http.StatusInternalServerError, errors.New("email service not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.client.SendConfirmationEmails(ctx, req); err != nil {
		log.Error("notification send: failed",
			slog.String("patient_email", req.PatientEmail),
			slog.String("error", err.Error()),
		)
		transport.WriteResult(w, http.StatusInternalServerError, errors.New("failed to send email"))
		return
	}

	log.Info("notification send: ok", slog.String("patient_email", req.PatientEmail))
	transport.WriteResult(w, http.StatusOK, nil)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
