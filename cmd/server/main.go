package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/api"
	"github.com/superxia01/crm/internal/api/handler"
	"github.com/superxia01/crm/internal/auth"
	"github.com/superxia01/crm/internal/config"
	"github.com/superxia01/crm/internal/repository"
	"github.com/superxia01/crm/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	modelCfg := &openai.ChatModelConfig{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
	}
	if cfg.LLM.Temperature > 0 {
		modelCfg.Temperature = &cfg.LLM.Temperature
	}
	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return fmt.Errorf("init chat model: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}

	customerSvc := service.NewCustomerService(repository.NewCustomerRepository(pool))
	interactionSvc := service.NewInteractionService(repository.NewInteractionRepository(pool), customerSvc)
	dealSvc := service.NewDealService(repository.NewDealRepository(pool), customerSvc)
	knowledgeSvc := service.NewKnowledgeService(repository.NewKnowledgeRepository(pool))
	authSvc := service.NewAuthService(repository.NewUserRepository(pool), tokens)
	aiSvc, err := service.NewAIService(chatModel, customerSvc)
	if err != nil {
		return err
	}

	intakeHandler, err := handler.NewIntakeHandler(chatModel, intake.NewStore(cfg.Intake.SessionTTL), customerSvc)
	if err != nil {
		return err
	}

	router := api.NewRouter(tokens, api.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Customers:    handler.NewCustomerHandler(customerSvc),
		Interactions: handler.NewInteractionHandler(interactionSvc),
		Deals:        handler.NewDealHandler(dealSvc),
		Knowledge:    handler.NewKnowledgeHandler(knowledgeSvc),
		AI:           handler.NewAIHandler(aiSvc),
		Intake:       intakeHandler,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var logHandler slog.Handler
	if cfg.Format == "json" {
		logHandler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))
}
