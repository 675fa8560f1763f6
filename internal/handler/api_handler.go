package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EpicMandM/dewi-reservations/internal/logger"
	"github.com/EpicMandM/dewi-reservations/internal/models"
	"github.com/EpicMandM/dewi-reservations/internal/service"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeCalendar = "text/calendar"
)

// Pipeline produces the normalized upcoming reservations for one request.
type Pipeline interface {
	Run(ctx context.Context) ([]models.Reservation, error)
}

type APIHandler struct {
	pipeline Pipeline
	ical     service.ICalOptions
	logger   *logger.Logger
}

func NewAPIHandler(pipeline Pipeline, ical service.ICalOptions, log *logger.Logger) *APIHandler {
	return &APIHandler{
		pipeline: pipeline,
		ical:     ical,
		logger:   log,
	}
}

// ReservationsJSON handles GET /json
func (h *APIHandler) ReservationsJSON(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ReservationsICal handles GET /ical
func (h *APIHandler) ReservationsICal(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeCalendar)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(service.RenderICal(reservations, h.ical))); err != nil {
		h.logger.Warn("Failed to write calendar response", logger.Error(err))
	}
}

// StatusFor maps a pipeline error to the HTTP status returned to callers.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailure), errors.Is(err, service.ErrInconsistency):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	kind := service.KindOf(err)
	h.logger.Error("Request failed",
		logger.Path(r.URL.Path),
		logger.Kind(kind),
		logger.StatusCode(status),
		logger.RequestID(RequestIDFromContext(r.Context())),
		logger.Error(err),
	)
	writeJSON(w, status, models.ErrorResponse{Error: kind, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
