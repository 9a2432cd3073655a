package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	eventserrors "hitcounter/internal/events/errors"
	"hitcounter/internal/events/service"
	apperrors "hitcounter/pkg/errors"
	httputil "hitcounter/pkg/http"
	"hitcounter/pkg/logger"
	"hitcounter/pkg/model"
)

const (
	PingPath  = "/ping"
	IndexPath = "/"
	LogPath   = "/log"

	pingBody     = "hello"
	indexMessage = "hitcounter is running"
)

// Endpoints is advertised by the index route.
var Endpoints = []string{PingPath, LogPath, "/health", "/ready", "/metrics"}

type IndexResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type EventHandler struct {
	service service.EventService
	log     *logger.Logger
}

func NewEventHandler(service service.EventService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log,
	}
}

func (h *EventHandler) Ping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteText(w, http.StatusOK, pingBody); err != nil {
		h.log.Error("failed to write text response", "handler", "Ping", "operation", "WriteText", "error", err)
	}
}

func (h *EventHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, IndexResponse{
		Message:   indexMessage,
		Endpoints: Endpoints,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Index", "operation", "WriteJSON", "error", err)
	}
}

// Log accepts one page-view ping. Every outcome answers with JSON; a ping
// from a private address is acknowledged without being stored.
func (h *EventHandler) Log(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw, err := decodeRawEvent(r)
	if err != nil {
		h.log.Warn("Rejected unreadable ping body",
			"error", err,
			"path", r.URL.Path,
		)
		h.writeError(w, "Log", decodeError(err))
		return
	}

	if raw.UserAgent == nil {
		raw.UserAgent = headerValue(r.UserAgent())
	}
	if raw.Referrer == nil {
		raw.Referrer = headerValue(httputil.Referrer(r))
	}
	raw.ClientIP = httputil.ClientIP(r)

	outcome, err := h.service.Log(r.Context(), raw)
	if err != nil {
		h.writeError(w, "Log", err)
		return
	}

	message := eventserrors.MsgStored
	if outcome == service.OutcomeIgnored {
		message = eventserrors.MsgIgnored
	}
	if err := httputil.WriteStatus(w, message); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Log", "operation", "WriteStatus", "error", err)
	}
}

func (h *EventHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(IndexPath, h.Index)
	router.GET(PingPath, h.Ping)
	router.POST(LogPath, h.Log)
}

// decodeRawEvent reads the body as exactly one JSON object. Fields that are
// missing or not strings are treated as absent. An empty body, a literal null
// or trailing data after the object is malformed.
func decodeRawEvent(r *http.Request) (*model.RawEvent, error) {
	dec := json.NewDecoder(r.Body)

	var body any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eventserrors.ErrMalformedBody
		}
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, eventserrors.ErrMalformedBody
		}
		return nil, err
	}

	fields, ok := body.(map[string]any)
	if !ok {
		return nil, eventserrors.ErrMalformedBody
	}

	return &model.RawEvent{
		Project:   stringField(fields, "project"),
		Page:      stringField(fields, "page"),
		UserAgent: stringField(fields, "userAgent"),
		Referrer:  stringField(fields, "referrer"),
		Date:      stringField(fields, "date"),
	}, nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.PayloadTooLarge(tooLarge.Limit)
	}
	if !errors.Is(err, eventserrors.ErrMalformedBody) {
		err = errors.Join(eventserrors.ErrMalformedBody, err)
	}
	return apperrors.Internal(eventserrors.MsgSaveFailed, err)
}

func stringField(fields map[string]any, key string) *string {
	s, ok := fields[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func headerValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
