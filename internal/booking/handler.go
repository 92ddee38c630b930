package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sakshamspr/MediLink/internal/auth"
	"github.com/sakshamspr/MediLink/internal/dates"
	"github.com/sakshamspr/MediLink/internal/httpx"
	"github.com/sakshamspr/MediLink/internal/middleware"
	"github.com/sakshamspr/MediLink/internal/transport"
	"github.com/sakshamspr/MediLink/internal/validation"
)

type Handler struct {
	service  *Service
	val      *validation.Validator
	jwt      *auth.Manager
	location *time.Location
	log      *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, jwtManager *auth.Manager, location *time.Location, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		jwt:      jwtManager,
		location: location,
		log:      log,
	}
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req CreateAppointmentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	req.PatientName = strings.TrimSpace(req.PatientName)
	req.PatientEmail = strings.TrimSpace(req.PatientEmail)

	if err := h.val.Struct(req); err != nil {
		log.Warn("booking create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	userID := h.resolveUserID(r, req)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appointment, err := h.service.Reserve(ctx, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			log.Warn("booking create: slot conflict", slog.String("slot_id", req.SlotID))
			transport.WriteError(w, http.StatusConflict, "slot no longer available", nil)
		case errors.Is(err, ErrSlotMismatch):
			log.Warn("booking create: slot mismatch", slog.String("slot_id", req.SlotID), slog.String("doctor_id", req.DoctorID))
			transport.WriteError(w, http.StatusBadRequest, "slot does not belong to doctor", nil)
		case errors.Is(err, ErrDoctorNotFound):
			log.Warn("booking create: doctor not found", slog.String("doctor_id", req.DoctorID))
			transport.WriteError(w, http.StatusBadRequest, "doctor not found", nil)
		case errors.Is(err, ErrVerifyAvailability):
			log.Error("booking create: availability check failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadGateway, "failed to verify slot availability", nil)
		default:
			log.Error("booking create: booking failed", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "booking failed", nil)
		}
		return
	}

	friendlyDate, err := dates.FormatFriendly(appointment.AppointmentDate, h.location, time.Now())
	if err != nil {
		friendlyDate = appointment.AppointmentDate
	}

	log.Info("booking create: confirmed",
		slog.String("appointment_id", appointment.ID),
		slog.String("doctor_id", appointment.DoctorID),
		slog.String("slot_id", appointment.SlotID),
		slog.String("date", appointment.AppointmentDate),
		slog.String("time", appointment.AppointmentTime),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment": appointment,
		"message":     fmt.Sprintf("Appointment confirmed for %s at %s", friendlyDate, appointment.AppointmentTime),
	})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("booking get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	appointment, err := h.service.Appointment(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			log.Warn("booking get: not found", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("booking get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking get: ok", slog.String("appointment_id", id))
	transport.WriteJSON(w, http.StatusOK, appointment)
}

// resolveUserID picks the authenticated subject when a valid bearer token is
// presented, else the client-persisted patient token, else a fresh anonymous
// UUID that only ever lives on the appointment row.
func (h *Handler) resolveUserID(r *http.Request, req CreateAppointmentRequest) string {
	if h.jwt != nil {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			claims, err := h.jwt.Parse(strings.TrimSpace(token))
			if err == nil && claims.Subject != "" {
				return claims.Subject
			}
		}
	}
	if req.PatientToken != "" {
		return req.PatientToken
	}
	return uuid.NewString()
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
