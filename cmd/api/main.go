package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/po-simulator/backend/internal/config"
	"github.com/zhouzirui/po-simulator/backend/internal/handler"
	chatModel "github.com/zhouzirui/po-simulator/backend/internal/model/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	"github.com/zhouzirui/po-simulator/backend/internal/service/ai"
	"github.com/zhouzirui/po-simulator/backend/internal/service/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/service/events"
	"github.com/zhouzirui/po-simulator/backend/internal/service/score"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "posim",
	Short:         "Product Owner simulator backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the simulated team members",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, p := range persona.Seed() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-13s %s\n", p.ID, p.Name, p.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, personasCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if envErr != nil {
		logger.Info("no env file loaded, using process environment", zap.String("path", envFile), zap.Error(envErr))
	}

	hub := events.NewHub()
	defer hub.Close()

	services := handler.Services{
		Personas: persona.NewMemoryStore(persona.Seed()),
		Log: chat.NewService(chat.WithNotifier(func(m chatModel.Message) {
			hub.Publish(events.TypeMessage, m)
		})),
		Scores: score.NewStore(cfg.Score.MaxWeeklyMeetingTime),
		Hub:    hub,
	}

	if cfg.AI.Enabled() {
		services.AI, err = ai.NewService(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("AI service unavailable, chat endpoints will return 503", zap.Error(err))
		} else {
			logger.Info("AI service initialized", zap.String("model", cfg.AI.Model), zap.Bool("stream", cfg.AI.StreamResponse))
		}
	} else {
		logger.Warn("ark credentials not configured, skipping AI initialisation")
	}

	router := handler.NewRouter(services, cfg.Server.AllowedOrigins, logger)
	return startServer(ctx, cfg.Server, router, hub, logger)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, hub *events.Hub, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("PO simulator backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// websocket connections are hijacked, so Shutdown does not wait for them
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
