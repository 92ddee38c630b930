package hospitals

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakshamspr/MediLink/internal/httpx"
	"github.com/sakshamspr/MediLink/internal/middleware"
	"github.com/sakshamspr/MediLink/internal/transport"
)

const (
	defaultRadiusMeters = 5000
	defaultResultLimit  = 20
)

type Handler struct {
	client *Client
	log    *slog.Logger
}

func NewHandler(client *Client, log *slog.Logger) *Handler {
	return &Handler{
		client: client,
		log:    log,
	}
}

func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if h.client == nil {
		log.Warn("hospitals nearby: places client not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "hospital finder not configured", nil)
		return
	}

	lat, err := httpx.ParseFloat(r.URL.Query(), "lat")
	if err != nil {
		log.Warn("hospitals nearby: invalid lat")
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	lng, err := httpx.ParseFloat(r.URL.Query(), "lng")
	if err != nil {
		log.Warn("hospitals nearby: invalid lng")
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		log.Warn("hospitals nearby: coordinates out of range")
		transport.WriteError(w, http.StatusBadRequest, "coordinates out of range", nil)
		return
	}

	radius, err := httpx.ParseIntDefault(r.URL.Query(), "radius", defaultRadiusMeters)
	if err != nil {
		log.Warn("hospitals nearby: invalid radius")
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	limit, err := httpx.ParseIntDefault(r.URL.Query(), "limit", defaultResultLimit)
	if err != nil {
		log.Warn("hospitals nearby: invalid limit")
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	found, err := h.client.SearchNearby(ctx, lat, lng, radius, limit)
	if err != nil {
		log.Error("hospitals nearby: places error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "failed to fetch nearby hospitals", nil)
		return
	}

	log.Info("hospitals nearby: ok",
		slog.Int("count", len(found)),
		slog.Int("radius", radius),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": found,
		"count":     len(found),
		"mapUrl":    h.client.StaticMapURL(lat, lng, radius, found),
	})
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
