package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/po-simulator/backend/internal/handler/chat"
	eventsHandler "github.com/zhouzirui/po-simulator/backend/internal/handler/events"
	"github.com/zhouzirui/po-simulator/backend/internal/handler/persona"
	scoreHandler "github.com/zhouzirui/po-simulator/backend/internal/handler/score"
	"github.com/zhouzirui/po-simulator/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/po-simulator/backend/internal/middleware"
	personaModel "github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	aiService "github.com/zhouzirui/po-simulator/backend/internal/service/ai"
	chatService "github.com/zhouzirui/po-simulator/backend/internal/service/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/service/events"
	scoreService "github.com/zhouzirui/po-simulator/backend/internal/service/score"
	"github.com/zhouzirui/po-simulator/backend/pkg/utils"
)

// Services bundles the core services the HTTP layer depends on. AI may be nil
// when no completion credentials are configured.
type Services struct {
	Personas personaModel.Store
	AI       *aiService.Service
	Log      *chatService.Service
	Scores   *scoreService.Store
	Hub      *events.Hub
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	// must be set before Route so sub-routers inherit them
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Create handlers
	personaHandler := persona.New(svc.Personas)
	chatHandler := chat.New(svc.AI, svc.Log, logger)
	streamHandler := stream.New(svc.AI, logger)
	scoresHandler := scoreHandler.New(svc.Scores, svc.Hub)
	wsHandler := eventsHandler.NewWebSocketHandler(svc.Hub, svc.Scores, allowedOrigins, logger)

	// serverless-style deployments post straight to the root
	r.Post("/", chatHandler.HandleChat)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		scoresHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
	})

	return r
}
