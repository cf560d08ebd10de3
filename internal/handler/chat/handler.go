package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/po-simulator/backend/internal/model/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	aiService "github.com/zhouzirui/po-simulator/backend/internal/service/ai"
	chatService "github.com/zhouzirui/po-simulator/backend/internal/service/chat"
	"github.com/zhouzirui/po-simulator/backend/pkg/utils"
)

// maxBodyBytes bounds a chat request including its history.
const maxBodyBytes = 256 << 10

var (
	errBodyRequired = errors.New("request body is required")
	errInvalidBody  = errors.New("invalid request body")
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	aiSvc  *aiService.Service
	log    *chatService.Service
	logger *zap.Logger
}

// New 创建聊天处理器。aiSvc 为 nil 时聊天接口返回 503。
func New(aiSvc *aiService.Service, log *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		aiSvc:  aiSvc,
		log:    log,
		logger: logger.Named("chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
	r.Post("/messages", h.handleAppendMessage)
	r.Get("/messages", h.handleListMessages)
	r.Get("/messages/{playerID}/{roleID}", h.handlePairHistory)
}

type chatPayload struct {
	RoleID           string      `json:"roleId"`
	EventID          string      `json:"eventId"`
	EventDescription string      `json:"eventDescription"`
	History          []chat.Turn `json:"history"`
	Message          string      `json:"message"`
}

// DecodeRequest reads a chat request body and validates it.
func DecodeRequest(w http.ResponseWriter, r *http.Request) (aiService.ReplyRequest, error) {
	var payload chatPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return aiService.ReplyRequest{}, errBodyRequired
		}
		return aiService.ReplyRequest{}, errInvalidBody
	}

	req := aiService.ReplyRequest{
		RoleID:           persona.RoleID(payload.RoleID),
		EventID:          payload.EventID,
		EventDescription: payload.EventDescription,
		History:          payload.History,
		Message:          payload.Message,
	}
	if err := req.Validate(); err != nil {
		return aiService.ReplyRequest{}, err
	}
	return req, nil
}

// HandleChat answers a player message with the persona's reply.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai chat unavailable")
		return
	}

	reply, err := h.aiSvc.Reply(r.Context(), req)
	if err != nil {
		if aiService.IsClientError(err) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("chat completion failed", zap.String("role", string(req.RoleID)), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleAppendMessage 保存一条聊天记录
func (h *Handler) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SenderID   string `json:"senderId"`
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
		EventID    string `json:"eventId"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	msg, err := h.log.Append(r.Context(), payload.SenderID, payload.ReceiverID, payload.Content, payload.EventID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.log.AllMessages(r.Context()))
}

func (h *Handler) handlePairHistory(w http.ResponseWriter, r *http.Request) {
	role, err := persona.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	playerID := chi.URLParam(r, "playerID")
	utils.RespondJSON(w, http.StatusOK, h.log.PairHistory(r.Context(), playerID, role))
}
