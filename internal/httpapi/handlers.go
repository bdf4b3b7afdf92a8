package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/service"
)

type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) cvEvent(w http.ResponseWriter, r *http.Request) {
	var req service.IngestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.svc.IngestEvent(req)
	if err != nil {
		h.writeServiceError(w, "cv-event", err, zap.String("user_id", req.UserID))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) checkURL(w http.ResponseWriter, r *http.Request) {
	var req service.CheckURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.svc.CheckURL(req)
	if err != nil {
		h.writeServiceError(w, "check-url", err, zap.String("url", req.URL))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) captureBet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pet, err := h.svc.CaptureBetByUser(req.UserID)
	if err != nil {
		h.writeServiceError(w, "capture-bet", err, zap.String("user_id", req.UserID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pet_id":   pet.ID,
		"captured": pet.Captured,
	})
}

func (h *Handler) petDisplay(w http.ResponseWriter, r *http.Request) {
	groupID := strings.TrimSpace(r.URL.Query().Get("group_id"))
	display, err := h.svc.GetPetDisplay(groupID)
	if err != nil {
		h.writeServiceError(w, "pet", err, zap.String("group_id", groupID))
		return
	}
	writeJSON(w, http.StatusOK, display)
}

func (h *Handler) petAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"group_id"`
		Delta   int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pet, err := h.svc.AdjustPetHealth(req.GroupID, req.Delta)
	if err != nil {
		h.writeServiceError(w, "pet-adjust", err, zap.String("group_id", req.GroupID), zap.Int("delta", req.Delta))
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (h *Handler) petReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pet, err := h.svc.ResetPet(req.GroupID)
	if err != nil {
		h.writeServiceError(w, "pet-reset", err, zap.String("group_id", req.GroupID))
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (h *Handler) petImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID     string `json:"group_id"`
		FileName    string `json:"file_name"`
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}
	pet, err := h.svc.UploadPetImage(service.UploadPetImageRequest{
		GroupID:  req.GroupID,
		FileName: req.FileName,
		Bytes:    raw,
	})
	if err != nil {
		h.writeServiceError(w, "pet-image", err, zap.String("group_id", req.GroupID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"pet_id":    pet.ID,
		"image_url": pet.ImageURL,
	})
}

func (h *Handler) sessionStart(w http.ResponseWriter, r *http.Request) {
	var req service.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.svc.StartSession(req)
	if err != nil {
		h.writeServiceError(w, "session-start", err, zap.String("user_id", req.UserID))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) sessionComplete(w http.ResponseWriter, r *http.Request) {
	h.closeSession(w, r, "session-complete", h.svc.CompleteSession)
}

func (h *Handler) sessionCancel(w http.ResponseWriter, r *http.Request) {
	h.closeSession(w, r, "session-cancel", h.svc.CancelSession)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request, op string, fn func(string) (model.Session, error)) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := fn(req.SessionID)
	if err != nil {
		h.writeServiceError(w, op, err, zap.String("session_id", req.SessionID))
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) sessionList(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	sessions, err := h.svc.ListSessions(userID)
	if err != nil {
		h.writeServiceError(w, "session-list", err, zap.String("user_id", userID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"sessions": sessions,
	})
}

func (h *Handler) tickAdd(w http.ResponseWriter, r *http.Request) {
	var req service.AddTickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tick, err := h.svc.AddTick(req)
	if err != nil {
		h.writeServiceError(w, "tick-add", err, zap.String("user_id", req.UserID))
		return
	}
	writeJSON(w, http.StatusOK, tick)
}

func (h *Handler) tickList(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	ticks, err := h.svc.ListTicks(userID, limit)
	if err != nil {
		h.writeServiceError(w, "tick-list", err, zap.String("user_id", userID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"ticks":   ticks,
	})
}

func (h *Handler) roastHistory(w http.ResponseWriter, r *http.Request) {
	groupID := strings.TrimSpace(r.URL.Query().Get("group_id"))
	roasts, err := h.svc.RoastHistory(groupID)
	if err != nil {
		h.writeServiceError(w, "roast-history", err, zap.String("group_id", groupID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group_id": groupID,
		"roasts":   roasts,
	})
}

func (h *Handler) roastStats(w http.ResponseWriter, r *http.Request) {
	groupID := strings.TrimSpace(r.URL.Query().Get("group_id"))
	stats, err := h.svc.RoastStats(groupID)
	if err != nil {
		h.writeServiceError(w, "roast-stats", err, zap.String("group_id", groupID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group_id": groupID,
		"stats":    stats,
	})
}

func (h *Handler) userCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.svc.CreateUser(req)
	if err != nil {
		h.writeServiceError(w, "user-create", err, zap.String("email", req.Email))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) userGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	user, err := h.svc.GetUser(id)
	if err != nil {
		h.writeServiceError(w, "user-get", err, zap.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) groupCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	group, pet, err := h.svc.CreateGroup(req)
	if err != nil {
		h.writeServiceError(w, "group-create", err, zap.String("name", req.Name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group": group,
		"pet":   pet,
	})
}

func (h *Handler) groupGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	group, err := h.svc.GetGroup(id)
	if err != nil {
		h.writeServiceError(w, "group-get", err, zap.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) groupJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID string `json:"group_id"`
		UserID  string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	group, err := h.svc.JoinGroup(req.GroupID, req.UserID)
	if err != nil {
		h.writeServiceError(w, "group-join", err, zap.String("group_id", req.GroupID), zap.String("user_id", req.UserID))
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *Handler) groupRoastLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID    string `json:"group_id"`
		RoastLevel int    `json:"roast_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	group, err := h.svc.SetGroupRoastLevel(req.GroupID, req.RoastLevel)
	if err != nil {
		h.writeServiceError(w, "group-roast-level", err, zap.String("group_id", req.GroupID), zap.Int("roast_level", req.RoastLevel))
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error, fields ...zap.Field) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrInvalidEventValue),
		errors.Is(err, service.ErrURLRequired),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrGoalRequired),
		errors.Is(err, service.ErrInvalidRoastLevel),
		errors.Is(err, service.ErrTickContentEmpty),
		errors.Is(err, service.ErrImageRequired):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrPetNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNoActiveSession):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrSessionNotActive):
		status = http.StatusConflict
	case errors.Is(err, service.ErrMediaUnavailable):
		status = http.StatusServiceUnavailable
	}

	fields = append(fields, zap.Int("status", status), zap.Error(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error(op, fields...)
	} else {
		h.logger.Warn(op, fields...)
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
