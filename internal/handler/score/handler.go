package score

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	"github.com/zhouzirui/po-simulator/backend/internal/service/events"
	scoreService "github.com/zhouzirui/po-simulator/backend/internal/service/score"
	"github.com/zhouzirui/po-simulator/backend/pkg/utils"
)

const maxBodyBytes = 4 << 10

// Handler 计分接口的HTTP处理器
type Handler struct {
	store *scoreService.Store
	hub   *events.Hub
}

// New 创建计分处理器。hub 可以为 nil。
func New(store *scoreService.Store, hub *events.Hub) *Handler {
	return &Handler{store: store, hub: hub}
}

// RegisterRoutes 注册计分相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scores", func(sr chi.Router) {
		sr.Get("/", h.handleSnapshot)
		sr.Put("/members/{roleID}", h.handleUpdateMember)
		sr.Post("/outcome", h.handleOutcome)
		sr.Post("/burden", h.handleBurden)
		sr.Post("/meeting-time", h.handleMeetingTime)
		sr.Post("/skip-meeting", h.handleSkipMeeting)
		sr.Post("/reset", h.handleReset)
	})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// handleUpdateMember 设置某个角色的士气与满意度，未知角色静默忽略。
func (h *Handler) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TeamMorale              *int `json:"teamMorale"`
		StakeholderSatisfaction *int `json:"stakeholderSatisfaction"`
	}
	if !decode(w, r, &payload) {
		return
	}
	if payload.TeamMorale == nil || payload.StakeholderSatisfaction == nil {
		utils.RespondError(w, http.StatusBadRequest, "teamMorale and stakeholderSatisfaction are required")
		return
	}

	id := persona.RoleID(chi.URLParam(r, "roleID"))
	if h.store.UpdateMemberScore(id, *payload.TeamMorale, *payload.StakeholderSatisfaction) {
		h.respondChanged(w)
		return
	}
	h.handleSnapshot(w, r)
}

func (h *Handler) handleOutcome(w http.ResponseWriter, r *http.Request) {
	h.applyInt(w, r, "delta", h.store.UpdateOutcome)
}

func (h *Handler) handleBurden(w http.ResponseWriter, r *http.Request) {
	h.applyInt(w, r, "delta", h.store.UpdateBurden)
}

func (h *Handler) handleMeetingTime(w http.ResponseWriter, r *http.Request) {
	h.applyInt(w, r, "minutes", h.store.AddMeetingTime)
}

func (h *Handler) handleSkipMeeting(w http.ResponseWriter, r *http.Request) {
	h.applyInt(w, r, "reduction", h.store.SkipMeeting)
}

func (h *Handler) handleReset(w http.ResponseWriter, _ *http.Request) {
	h.store.ResetAllScores()
	h.respondChanged(w)
}

// applyInt decodes {"<field>": n} and applies n through fn.
func (h *Handler) applyInt(w http.ResponseWriter, r *http.Request, field string, fn func(int)) {
	var payload map[string]json.RawMessage
	if !decode(w, r, &payload) {
		return
	}

	raw, ok := payload[field]
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, field+" is required")
		return
	}
	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		utils.RespondError(w, http.StatusBadRequest, field+" must be an integer")
		return
	}

	fn(value)
	h.respondChanged(w)
}

func (h *Handler) respondChanged(w http.ResponseWriter) {
	snapshot := h.store.Snapshot()
	h.hub.Publish(events.TypeScore, snapshot)
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
