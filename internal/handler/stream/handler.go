package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatHandler "github.com/zhouzirui/po-simulator/backend/internal/handler/chat"
	aiService "github.com/zhouzirui/po-simulator/backend/internal/service/ai"
	"github.com/zhouzirui/po-simulator/backend/pkg/utils"
)

// Handler manages streaming persona replies via Server-Sent Events
type Handler struct {
	aiService *aiService.Service
	logger    *zap.Logger
}

// New creates a new stream handler
func New(aiSvc *aiService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		aiService: aiSvc,
		logger:    logger.Named("stream"),
	}
}

// RegisterRoutes 注册流式聊天路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event    string `json:"event"`
	Role     string `json:"roleId,omitempty"`
	Content  string `json:"content,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := chatHandler.DecodeRequest(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.aiService == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, req); err != nil {
		h.logger.Error("stream failed", zap.String("role", string(req.RoleID)), zap.Error(err))
	}
}

// HandleStreamRequest writes the persona reply for a validated request as SSE.
// Once headers are sent, failures are reported as an error event.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, req aiService.ReplyRequest) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)
	role := string(req.RoleID)

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "start", Role: role})

	response, err := h.dispatchAIResponse(ctx, w, flusher, req)
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "error", Role: role, Error: "failed to generate response"})
		return err
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "end", Role: role, Finished: true})
	h.logger.Debug("completed stream", zap.String("role", role), zap.Int("length", len(response.Content)))
	return nil
}

func (h *Handler) dispatchAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, req aiService.ReplyRequest) (*schema.Message, error) {
	if h.aiService.StreamingEnabled() {
		return h.streamAIResponse(ctx, w, flusher, req)
	}

	reply, err := h.aiService.Reply(ctx, req)
	if err != nil {
		return nil, err
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "message", Role: string(req.RoleID), Content: reply})
	return schema.AssistantMessage(reply, nil), nil
}

func (h *Handler) streamAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, req aiService.ReplyRequest) (*schema.Message, error) {
	stream, err := h.aiService.StreamReply(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	role := string(req.RoleID)
	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			utils.SendSSEChunk(w, flusher, StreamResponse{Event: "delta", Role: role, Content: chunk.Content})
		}
	}

	response := schema.AssistantMessage("", nil)
	if len(chunks) > 0 {
		response, err = schema.ConcatMessages(chunks)
		if err != nil {
			return nil, err
		}
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "message", Role: role, Content: response.Content})
	return response, nil
}
