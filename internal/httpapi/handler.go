package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

type Handler struct {
	store             store.VisitStore
	mobileStrictStaff bool
}

type Options struct {
	// MobileStrictStaff applies the visitor mobile format check to
	// staff-side registration as well.
	MobileStrictStaff bool
}

func NewHandler(store store.VisitStore, options Options) *Handler {
	return &Handler{
		store:             store,
		mobileStrictStaff: options.MobileStrictStaff,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/api/visits", h.handleVisits)
	mux.HandleFunc("/api/visits/", h.handleVisitSubtree)
	mux.HandleFunc("/api/queue/office", h.handleOfficeQueue)
	mux.HandleFunc("/api/queue/desk", h.handleDeskQueue)
	mux.HandleFunc("/api/routing/pending", h.handlePendingVisits)
	mux.HandleFunc("/api/track", h.handleTrack)
	mux.HandleFunc("/api/files", h.handleFiles)
	mux.HandleFunc("/api/files/", h.handleFileDetail)
	mux.HandleFunc("/api/desks", h.handleDesks)
	mux.HandleFunc("/api/purposes", h.handlePurposes)
	return mux
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type registerVisitRequest struct {
	OfficeID        string `json:"office_id"`
	Name            string `json:"name"`
	Mobile          string `json:"mobile"`
	PurposeID       string `json:"purpose_id"`
	ReferenceNumber string `json:"reference_number"`
	Mode            string `json:"mode"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleVisits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerVisitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.OfficeID = strings.TrimSpace(req.OfficeID)
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.PurposeID = strings.TrimSpace(req.PurposeID)
	req.ReferenceNumber = strings.TrimSpace(req.ReferenceNumber)
	req.Mode = strings.ToUpper(strings.TrimSpace(req.Mode))

	if req.Mode == "" {
		req.Mode = models.ModeKiosk
	}
	if !models.ValidMode(req.Mode) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "mode must be one of QR, KIOSK, QUICK, MOBILE")
		return
	}
	if req.OfficeID == "" || req.PurposeID == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "office_id and purpose_id are required")
		return
	}
	if !isValidUUID(req.OfficeID) || !isValidUUID(req.PurposeID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "office_id and purpose_id must be UUIDs")
		return
	}

	actor, staff := actorFromContext(r.Context())

	// Quick tokens carry no visitor identity; every other mode asks
	// for name and mobile. Staff get a lenient mobile check unless
	// configured strict.
	if req.Mode != models.ModeQuick {
		if req.Name == "" || req.Mobile == "" {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "name and mobile are required")
			return
		}
	}
	if req.Mobile != "" {
		strict := !staff || h.mobileStrictStaff
		if strict && !isValidMobile(req.Mobile) {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "mobile must be a 10-digit number")
			return
		}
	}

	visit, err := h.store.RegisterVisit(r.Context(), store.RegisterVisitInput{
		OfficeID:        req.OfficeID,
		Name:            req.Name,
		Mobile:          req.Mobile,
		PurposeID:       req.PurposeID,
		ReferenceNumber: req.ReferenceNumber,
		Mode:            req.Mode,
		Actor:           actor,
		IssuedAt:        time.Now(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	writeJSON(w, http.StatusCreated, visit)
}

func (h *Handler) handleVisitSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/visits/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	visitID := parts[0]
	if !isValidUUID(visitID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "visit_id must be a UUID")
		return
	}

	switch {
	case len(parts) == 1:
		h.handleVisitDetail(w, r, visitID)
	case len(parts) == 2 && parts[1] == "logs":
		h.handleVisitLogs(w, r, visitID)
	case len(parts) == 2 && parts[1] == "lock":
		h.handleVisitLock(w, r, visitID)
	case len(parts) == 3 && parts[1] == "actions":
		h.handleVisitAction(w, r, visitID, parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type updateVisitRequest struct {
	Name            *string `json:"name"`
	Mobile          *string `json:"mobile"`
	PurposeID       *string `json:"purpose_id"`
	ReferenceNumber *string `json:"reference_number"`
}

func (h *Handler) handleVisitDetail(w http.ResponseWriter, r *http.Request, visitID string) {
	switch r.Method {
	case http.MethodGet:
		visit, err := h.store.GetVisit(r.Context(), visitID)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, visit)
	case http.MethodPatch:
		var req updateVisitRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
			return
		}
		if req.Name == nil && req.Mobile == nil && req.PurposeID == nil && req.ReferenceNumber == nil {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "no fields to update")
			return
		}
		if req.PurposeID != nil && !isValidUUID(strings.TrimSpace(*req.PurposeID)) {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "purpose_id must be a UUID")
			return
		}
		actor, _ := actorFromContext(r.Context())
		if req.Mobile != nil {
			mobile := strings.TrimSpace(*req.Mobile)
			if mobile != "" && h.mobileStrictStaff && !isValidMobile(mobile) {
				writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "mobile must be a 10-digit number")
				return
			}
			req.Mobile = &mobile
		}

		visit, err := h.store.UpdateVisit(r.Context(), store.UpdateVisitInput{
			VisitID:         visitID,
			Name:            req.Name,
			Mobile:          req.Mobile,
			PurposeID:       req.PurposeID,
			ReferenceNumber: req.ReferenceNumber,
			Actor:           actor,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, visit)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleVisitLogs(w http.ResponseWriter, r *http.Request, visitID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, err := h.store.GetVisit(r.Context(), visitID); err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	logs, err := h.store.ListVisitLogs(r.Context(), visitID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if logs == nil {
		logs = []models.VisitLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type assignRequest struct {
	DeskID  string `json:"desk_id"`
	Remarks string `json:"remarks"`
}

type actionRequest struct {
	Remarks string `json:"remarks"`
}

func (h *Handler) handleVisitAction(w http.ResponseWriter, r *http.Request, visitID, action string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	switch action {
	case "assign":
		h.handleAssign(w, r, visitID, actor)
	case "attend":
		h.handleAttend(w, r, visitID, actor)
	case "transfer":
		h.handleTransfer(w, r, visitID, actor)
	case "complete":
		h.handleClose(w, r, visitID, actor, h.store.CompleteVisit)
	case "cancel":
		h.handleClose(w, r, visitID, actor, h.store.CancelVisit)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request, visitID string, actor models.Actor) {
	var req assignRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.DeskID = strings.TrimSpace(req.DeskID)
	if req.DeskID == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id is required")
		return
	}
	if !isValidUUID(req.DeskID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id must be a UUID")
		return
	}

	visit, err := h.store.AssignVisit(r.Context(), store.AssignVisitInput{
		VisitID: visitID,
		DeskID:  req.DeskID,
		Actor:   actor,
		Action:  models.ActionAssigned,
		Remarks: strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *Handler) handleAttend(w http.ResponseWriter, r *http.Request, visitID string, actor models.Actor) {
	var req actionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	visit, err := h.store.AttendVisit(r.Context(), store.VisitActionInput{
		VisitID:    visitID,
		Actor:      actor,
		Remarks:    strings.TrimSpace(req.Remarks),
		OccurredAt: time.Now(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request, visitID string, actor models.Actor) {
	var req assignRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.DeskID = strings.TrimSpace(req.DeskID)
	if req.DeskID == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id is required")
		return
	}
	if !isValidUUID(req.DeskID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id must be a UUID")
		return
	}

	visit, err := h.store.TransferVisit(r.Context(), store.TransferVisitInput{
		VisitID:      visitID,
		TargetDeskID: req.DeskID,
		Actor:        actor,
		Remarks:      strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request, visitID string, actor models.Actor, closeVisit func(ctx context.Context, input store.VisitActionInput) (models.Visit, error)) {
	var req actionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	visit, err := closeVisit(r.Context(), store.VisitActionInput{
		VisitID:    visitID,
		Actor:      actor,
		Remarks:    strings.TrimSpace(req.Remarks),
		OccurredAt: time.Now(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *Handler) handleVisitLock(w http.ResponseWriter, r *http.Request, visitID string) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	switch r.Method {
	case http.MethodPost:
		status, err := h.store.AcquireLock(r.Context(), visitID, actor)
		if err != nil {
			httpStatus, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), httpStatus, code, msg)
			return
		}
		if !status.Granted {
			writeJSON(w, http.StatusConflict, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
	case http.MethodGet:
		status, err := h.store.CheckLock(r.Context(), visitID, actor)
		if err != nil {
			httpStatus, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), httpStatus, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, status)
	case http.MethodDelete:
		if err := h.store.ReleaseLock(r.Context(), visitID, actor); err != nil {
			httpStatus, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), httpStatus, code, msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleOfficeQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	officeID := strings.TrimSpace(r.URL.Query().Get("office_id"))
	if officeID == "" {
		if session, ok := authSessionFromContext(r.Context()); ok {
			officeID = session.OfficeID
		}
	}
	if officeID == "" || !isValidUUID(officeID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "office_id must be a UUID")
		return
	}
	entries, err := h.store.OfficeQueue(r.Context(), officeID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if entries == nil {
		entries = []models.QueueEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleDeskQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deskID := strings.TrimSpace(r.URL.Query().Get("desk_id"))
	if deskID == "" {
		if actor, ok := actorFromContext(r.Context()); ok {
			deskID = actor.DeskID
		}
	}
	if deskID == "" || !isValidUUID(deskID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id must be a UUID")
		return
	}
	entries, err := h.store.DeskQueue(r.Context(), deskID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if entries == nil {
		entries = []models.QueueEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handlePendingVisits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	officeID := strings.TrimSpace(r.URL.Query().Get("office_id"))
	if officeID == "" {
		if actor, ok := authSessionFromContext(r.Context()); ok {
			officeID = actor.OfficeID
		}
	}
	if officeID == "" || !isValidUUID(officeID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "office_id must be a UUID")
		return
	}
	entries, err := h.store.ListPendingVisits(r.Context(), officeID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if entries == nil {
		entries = []models.QueueEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "q is required")
		return
	}
	result, err := h.store.Track(r.Context(), query)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createFileRequest struct {
	VisitID string `json:"visit_id"`
	DeskID  string `json:"desk_id"`
}

func (h *Handler) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req createFileRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.VisitID = strings.TrimSpace(req.VisitID)
	req.DeskID = strings.TrimSpace(req.DeskID)
	if req.VisitID == "" || !isValidUUID(req.VisitID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "visit_id must be a UUID")
		return
	}
	if req.DeskID != "" && !isValidUUID(req.DeskID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "desk_id must be a UUID when provided")
		return
	}

	file, err := h.store.CreateOfficeFile(r.Context(), store.CreateFileInput{
		VisitID: req.VisitID,
		DeskID:  req.DeskID,
		Actor:   actor,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func (h *Handler) handleFileDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	fileID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/files/"), "/")
	if fileID == "" || !isValidUUID(fileID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "file_id must be a UUID")
		return
	}
	file, err := h.store.GetOfficeFile(r.Context(), fileID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *Handler) handleDesks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	officeID := strings.TrimSpace(r.URL.Query().Get("office_id"))
	if officeID == "" {
		if session, ok := authSessionFromContext(r.Context()); ok {
			officeID = session.OfficeID
		}
	}
	if officeID == "" || !isValidUUID(officeID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "office_id must be a UUID")
		return
	}
	desks, err := h.store.ListDesks(r.Context(), officeID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if desks == nil {
		desks = []models.Desk{}
	}
	writeJSON(w, http.StatusOK, desks)
}

func (h *Handler) handlePurposes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	purposes, err := h.store.ListPurposes(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	if purposes == nil {
		purposes = []models.Purpose{}
	}
	writeJSON(w, http.StatusOK, purposes)
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func isValidMobile(value string) bool {
	if len(value) != 10 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrVisitNotFound):
		return http.StatusNotFound, "visit_not_found", "visit not found"
	case errors.Is(err, store.ErrOfficeNotFound):
		return http.StatusNotFound, "office_not_found", "office not found"
	case errors.Is(err, store.ErrOfficeCodeMissing):
		return http.StatusConflict, "office_code_missing", "office has no token code configured"
	case errors.Is(err, store.ErrDeskNotFound):
		return http.StatusNotFound, "desk_not_found", "desk not found"
	case errors.Is(err, store.ErrPurposeNotFound):
		return http.StatusNotFound, "purpose_not_found", "purpose not found"
	case errors.Is(err, store.ErrFileNotFound):
		return http.StatusNotFound, "file_not_found", "file not found"
	case errors.Is(err, store.ErrVisitClosed):
		return http.StatusConflict, "visit_closed", "visit is already completed or cancelled"
	case errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "visit state does not allow this action"
	case errors.Is(err, store.ErrNoDeskAssigned):
		return http.StatusConflict, "no_desk_assigned", "acting user has no desk assigned"
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized", "invalid session"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
