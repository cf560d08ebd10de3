package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/po-simulator/backend/internal/config"
)

// Service forwards persona conversations to the completion model.
type Service struct {
	cfg    config.AIConfig
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewService creates the ark-backed chat model from configuration.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, cfg, logger)
}

// NewServiceWithModel compiles the chat chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(newChatTemplate())
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		cfg:    cfg,
		chain:  runnable,
		logger: logger.Named("ai"),
	}, nil
}

// StreamingEnabled 指示是否开启 SSE 流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Reply makes a single completion call and returns the reply text. A
// completion without a message yields an empty reply.
func (s *Service) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	response, err := s.chain.Invoke(ctx, buildChainInput(req))
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	reply := replyText(response)
	s.logger.Debug("generated reply",
		zap.String("role", string(req.RoleID)),
		zap.Int("history", len(req.History)),
		zap.Int("length", len(reply)))
	return reply, nil
}

// StreamReply streams reply chunks through the same chain.
func (s *Service) StreamReply(ctx context.Context, req ReplyRequest) (*schema.StreamReader[*schema.Message], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, buildChainInput(req))
	if err != nil {
		return nil, fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	return stream, nil
}

func replyText(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Content
}
