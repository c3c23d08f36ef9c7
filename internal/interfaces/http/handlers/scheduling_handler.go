package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// SchedulingHandler serves the timebar scheduling API: the notice type
// catalog, case notice attachments, recalculation and todo listings.
type SchedulingHandler struct {
	svc    scheduling.Service
	logger logging.Logger
}

// NewSchedulingHandler creates a new SchedulingHandler.
func NewSchedulingHandler(svc scheduling.Service, logger logging.Logger) *SchedulingHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SchedulingHandler{svc: svc, logger: logger}
}

// AttachNoticeRequest is the request body for attaching a notice type to a
// case.
type AttachNoticeRequest struct {
	OrgID        int64 `json:"org_id"`
	NoticeTypeID int64 `json:"notice_type_id"`
}

// RecalcRequest is the request body for recalculating a case.
type RecalcRequest struct {
	OrgID int64 `json:"org_id"`
}

// SetEnabledRequest is the request body for flipping a case notice's enabled
// flag.  IsEnabled is a pointer so an absent field can be told apart from an
// explicit false.
type SetEnabledRequest struct {
	IsEnabled *bool `json:"is_enabled"`
}

// ListNoticeTypes handles GET /api/v1/notice-types?org_id=.
func (h *SchedulingHandler) ListNoticeTypes(w http.ResponseWriter, r *http.Request) {
	orgID, ok := queryInt64(r, "org_id")
	if !ok {
		writeValidationError(w, "org_id query parameter is required")
		return
	}

	types, err := h.svc.ListNoticeTypes(r.Context(), orgID)
	if err != nil {
		h.logger.Error("list notice types failed",
			logging.Int64("org_id", orgID), logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// AttachNotice handles POST /api/v1/cases/{caseId}/notices.
func (h *SchedulingHandler) AttachNotice(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		writeValidationError(w, "invalid case id")
		return
	}

	var req AttachNoticeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OrgID <= 0 {
		writeValidationError(w, "org_id is required")
		return
	}
	if req.NoticeTypeID <= 0 {
		writeValidationError(w, "notice_type_id is required")
		return
	}

	result, err := h.svc.AttachNoticeToCase(r.Context(), caseID, req.OrgID, req.NoticeTypeID)
	if err != nil {
		h.logger.Error("attach notice failed",
			logging.Int64("case_id", caseID),
			logging.Int64("notice_type_id", req.NoticeTypeID),
			logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RecalculateCase handles POST /api/v1/cases/{caseId}/recalc.
func (h *SchedulingHandler) RecalculateCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		writeValidationError(w, "invalid case id")
		return
	}

	var req RecalcRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.RecalculateCase(r.Context(), caseID, req.OrgID)
	if err != nil {
		h.logger.Error("recalculate case failed",
			logging.Int64("case_id", caseID), logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListCaseNotices handles GET /api/v1/cases/{caseId}/notices.
func (h *SchedulingHandler) ListCaseNotices(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		writeValidationError(w, "invalid case id")
		return
	}

	notices, err := h.svc.ListCaseNotices(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notices)
}

// ListCaseTodos handles GET /api/v1/cases/{caseId}/todos.
func (h *SchedulingHandler) ListCaseTodos(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		writeValidationError(w, "invalid case id")
		return
	}

	todos, err := h.svc.ListCaseTodos(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// ListTodos handles GET /api/v1/todos?status=&type=&due_before=.
func (h *SchedulingHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	f, err := parseTodoFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	todos, err := h.svc.ListTodos(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// SetNoticeEnabled handles PATCH /api/v1/case-notices/{id}.
func (h *SchedulingHandler) SetNoticeEnabled(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeValidationError(w, "invalid case notice id")
		return
	}

	var req SetEnabledRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IsEnabled == nil {
		writeValidationError(w, "is_enabled is required")
		return
	}

	result, err := h.svc.SetNoticeEnabled(r.Context(), id, *req.IsEnabled)
	if err != nil {
		h.logger.Error("set notice enabled failed",
			logging.Int64("case_notice_id", id),
			logging.Bool("enabled", *req.IsEnabled),
			logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteCaseNotice handles DELETE /api/v1/case-notices/{id}.  Deleting an
// unknown id still returns ok.
func (h *SchedulingHandler) DeleteCaseNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeValidationError(w, "invalid case notice id")
		return
	}

	result, err := h.svc.DeleteCaseNotice(r.Context(), id)
	if err != nil {
		h.logger.Error("delete case notice failed",
			logging.Int64("case_notice_id", id), logging.Err(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseTodoFilter reads the todo listing query parameters.  Status and type
// are matched case-insensitively; due_before accepts RFC 3339 or a bare
// date.
func parseTodoFilter(r *http.Request) (todo.Filter, error) {
	var f todo.Filter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := todo.ParseStatus(strings.ToUpper(raw))
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		f.Type = todo.Type(strings.ToUpper(raw))
	}
	if raw := r.URL.Query().Get("due_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return f, errors.New(errors.ErrCodeTodoFilterInvalid,
				"due_before must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
		f.DueBefore = &t
	}
	return f, nil
}

// RegisterRoutes registers the scheduling API routes on the mux.
func (h *SchedulingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/notice-types", h.ListNoticeTypes)
	mux.HandleFunc("POST /api/v1/cases/{caseId}/notices", h.AttachNotice)
	mux.HandleFunc("POST /api/v1/cases/{caseId}/recalc", h.RecalculateCase)
	mux.HandleFunc("GET /api/v1/cases/{caseId}/notices", h.ListCaseNotices)
	mux.HandleFunc("GET /api/v1/cases/{caseId}/todos", h.ListCaseTodos)
	mux.HandleFunc("GET /api/v1/todos", h.ListTodos)
	mux.HandleFunc("PATCH /api/v1/case-notices/{id}", h.SetNoticeEnabled)
	mux.HandleFunc("DELETE /api/v1/case-notices/{id}", h.DeleteCaseNotice)
}

//Personal.AI order the ending
