package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/requestcontext"
)

// Service is the permission-gated events API the handler serves.
type Service interface {
	EditEvent(ctx context.Context, actor domain.Actor, ref models.EventRef, req models.EditEventRequest) (*models.Event, error)
	SetAttendance(ctx context.Context, actor domain.Actor, ref models.EventRef, selector models.ApplicationSelector, req models.AttendanceRequest) (*models.Application, error)
	BoardView(ctx context.Context, actor domain.Actor, ref models.EventRef, rawBodyID string) ([]*models.Application, error)
	ExportOpenSlides(ctx context.Context, actor domain.Actor, ref models.EventRef) ([]byte, error)
	MembersList(ctx context.Context, actor domain.Actor, ref models.EventRef, rawBodyID string) (*models.MembersList, error)
	MembersLists(ctx context.Context, actor domain.Actor, ref models.EventRef) ([]*models.MembersList, error)
	ResolveLimit(ctx context.Context, actor domain.Actor, rawEventType, rawBodyID string) (*models.PaxLimit, error)
	SetLimit(ctx context.Context, actor domain.Actor, rawEventType, rawBodyID string, req models.SetLimitRequest) (*models.PaxLimit, error)
}

// Handler wires the events endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the events endpoints. The router must already carry the
// actor middleware.
func (h *Handler) Register(r chi.Router) {
	r.Route("/events/{eventID}", func(r chi.Router) {
		r.Put("/", h.HandleEditEvent)
		r.Put("/applications/{applicationID}/attended", h.HandleSetAttendance)
		r.Get("/applications/boardview/{bodyID}", h.HandleBoardView)
		r.Get("/applications/export/openslides", h.HandleExportOpenSlides)
		r.Get("/memberslists", h.HandleMembersLists)
		r.Get("/memberslists/{bodyID}", h.HandleMembersList)
	})
	r.Get("/limits/{eventType}/{bodyID}", h.HandleResolveLimit)
	r.Put("/limits/{eventType}/{bodyID}", h.HandleSetLimit)
}

func eventRef(r *http.Request) models.EventRef {
	return models.ParseEventRef(chi.URLParam(r, "eventID"))
}

// actor returns the caller set by the auth middleware. Reaching a handler
// without one is a wiring fault, reported as 401.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := requestcontext.Actor(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return domain.Actor{}, false
	}
	return actor, true
}

// fail logs err with the severity its status deserves and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"code", code,
		"error", err,
	}
	if dErrors.HTTPStatus(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}

// HandleEditEvent handles PUT /events/{eventID}.
func (h *Handler) HandleEditEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	raw, err := httputil.ReadBody(r)
	if err != nil {
		h.fail(w, r, "edit_event", err)
		return
	}
	req := models.ParseEditEventRequest(raw)

	event, err := h.service.EditEvent(r.Context(), actor, eventRef(r), req)
	if err != nil {
		h.fail(w, r, "edit_event", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, event)
}

// HandleSetAttendance handles PUT /events/{eventID}/applications/{applicationID}/attended.
func (h *Handler) HandleSetAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	selector, err := models.ParseApplicationSelector(chi.URLParam(r, "applicationID"))
	if err != nil {
		h.fail(w, r, "set_attendance", err)
		return
	}
	raw, err := httputil.ReadBody(r)
	if err != nil {
		h.fail(w, r, "set_attendance", err)
		return
	}

	app, err := h.service.SetAttendance(r.Context(), actor, eventRef(r), selector, models.ParseAttendanceRequest(raw))
	if err != nil {
		h.fail(w, r, "set_attendance", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, app)
}

// HandleBoardView handles GET /events/{eventID}/applications/boardview/{bodyID}.
func (h *Handler) HandleBoardView(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	apps, err := h.service.BoardView(r.Context(), actor, eventRef(r), chi.URLParam(r, "bodyID"))
	if err != nil {
		h.fail(w, r, "board_view", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, apps)
}

// HandleExportOpenSlides handles GET /events/{eventID}/applications/export/openslides.
func (h *Handler) HandleExportOpenSlides(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	out, err := h.service.ExportOpenSlides(r.Context(), actor, eventRef(r))
	if err != nil {
		h.fail(w, r, "export_openslides", err)
		return
	}
	httputil.WriteText(w, http.StatusOK, "text/csv; charset=utf-8", out)
}

// HandleMembersList handles GET /events/{eventID}/memberslists/{bodyID}.
func (h *Handler) HandleMembersList(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	list, err := h.service.MembersList(r.Context(), actor, eventRef(r), chi.URLParam(r, "bodyID"))
	if err != nil {
		h.fail(w, r, "members_list", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, list)
}

// HandleMembersLists handles GET /events/{eventID}/memberslists.
func (h *Handler) HandleMembersLists(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	lists, err := h.service.MembersLists(r.Context(), actor, eventRef(r))
	if err != nil {
		h.fail(w, r, "members_lists", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, lists)
}

// HandleResolveLimit handles GET /limits/{eventType}/{bodyID}.
func (h *Handler) HandleResolveLimit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	limit, err := h.service.ResolveLimit(r.Context(), actor, chi.URLParam(r, "eventType"), chi.URLParam(r, "bodyID"))
	if err != nil {
		h.fail(w, r, "resolve_limit", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, limit)
}

// HandleSetLimit handles PUT /limits/{eventType}/{bodyID}.
func (h *Handler) HandleSetLimit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req models.SetLimitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "set_limit", err)
		return
	}
	limit, err := h.service.SetLimit(r.Context(), actor, chi.URLParam(r, "eventType"), chi.URLParam(r, "bodyID"), req)
	if err != nil {
		h.fail(w, r, "set_limit", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, limit)
}
