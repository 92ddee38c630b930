package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakshamspr/MediLink/internal/cache"
	"github.com/sakshamspr/MediLink/internal/middleware"
	"github.com/sakshamspr/MediLink/internal/models"
	"github.com/sakshamspr/MediLink/internal/transport"
)

type Handler struct {
	service  *Service
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(service *Service, cacheStore cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	cacheKey := "categories:all"
	if cached, ok := h.cached(r.Context(), cacheKey); ok {
		log.Info("categories: cache hit")
		transport.WriteCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Categories(ctx)
	if err != nil {
		log.Error("categories: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{"categories": items}
	h.store(r.Context(), cacheKey, response)

	log.Info("categories: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	cacheKey := "doctors:" + category
	if category == "" || category == models.CategoryAll {
		cacheKey = "doctors:all"
	}
	if cached, ok := h.cached(r.Context(), cacheKey); ok {
		log.Info("doctors: cache hit", slog.String("category", category))
		transport.WriteCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Doctors(ctx, category)
	if err != nil {
		log.Error("doctors: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{"doctors": items}
	h.store(r.Context(), cacheKey, response)

	log.Info("doctors: ok", slog.String("category", category), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("doctor get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	cacheKey := "doctor:" + id
	if cached, ok := h.cached(r.Context(), cacheKey); ok {
		log.Info("doctor get: cache hit", slog.String("doctor_id", id))
		transport.WriteCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	doc, err := h.service.Doctor(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			log.Warn("doctor get: not found", slog.String("doctor_id", id))
			transport.WriteError(w, http.StatusNotFound, "doctor not found", nil)
			return
		}
		log.Error("doctor get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.store(r.Context(), cacheKey, doc)

	log.Info("doctor get: ok", slog.String("doctor_id", id))
	transport.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		log.Warn("slots list: missing doctor id")
		transport.WriteError(w, http.StatusBadRequest, "missing doctor id", nil)
		return
	}

	cacheKey := "slots:" + doctorID
	if cached, ok := h.cached(r.Context(), cacheKey); ok {
		log.Info("slots list: cache hit", slog.String("doctor_id", doctorID))
		transport.WriteCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := h.service.OpenSlots(ctx, doctorID)
	if err != nil {
		log.Error("slots list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{
		"doctorId": doctorID,
		"slots":    slots,
	}
	h.store(r.Context(), cacheKey, response)

	log.Info("slots list: ok", slog.String("doctor_id", doctorID), slog.Int("count", len(slots)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) cached(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	payload, ok, err := h.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	return payload, true
}

func (h *Handler) store(ctx context.Context, key string, payload interface{}) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = h.cache.Set(ctx, key, raw, h.cacheTTL)
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
