package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"multi-agent-collaboration/config"
	_ "multi-agent-collaboration/docs" // Swagger docs
	"multi-agent-collaboration/internal/agent"
	agentHTTP "multi-agent-collaboration/internal/agent/delivery/http"
	agentWS "multi-agent-collaboration/internal/agent/delivery/websocket"
	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/httpserver"
	"multi-agent-collaboration/internal/middleware"
	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/internal/session/repository/sqlite"
	"multi-agent-collaboration/pkg/llmprovider"
	"multi-agent-collaboration/pkg/log"
)

// @title       Multi-Agent Collaboration API
// @description Relays a user prompt through Coordinator, Research and Creative agents and streams their traces over websockets.
// @version     1
// @host        localhost:8000
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Multi-Agent Collaboration...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	if file := cfg.FileUsed(); file != "" {
		logger.Infof(ctx, "Config file: %s", file)
	}

	// 3. LLM providers
	llmManager := llmprovider.NewManagerFromConfig(ctx, &cfg.LLM, logger)
	if llmManager.Configured() {
		logger.Infof(ctx, "LLM providers: %v", llmManager.ProviderNames())
	} else {
		logger.Warn(ctx, "No LLM provider configured: every agent call will fail until OPENAI_API_KEY or llm.providers is set")
	}

	// 4. Agents
	personas, err := agent.LoadPersonas(cfg.Agents.PersonaFile)
	if err != nil {
		logger.Error(ctx, "Failed to load agent personas: ", err)
		return
	}
	responder := agent.NewLLMResponder(llmManager, agent.LLMOptions{
		Temperature: cfg.Agents.Temperature,
		MaxTokens:   cfg.Agents.MaxTokens,
	})
	pool := agent.NewPool(personas, responder, logger)

	// 5. Sessions, channels and archive
	sessions := session.New(logger)
	registry := connection.New(logger)

	var opts []orchestrator.Option
	if cfg.Archive.Enabled {
		archive, err := sqlite.New(ctx, cfg.Archive.Path, logger)
		if err != nil {
			logger.Error(ctx, "Failed to open transcript archive: ", err)
			return
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Warnf(context.Background(), "Failed to close transcript archive: %v", err)
			}
		}()
		opts = append(opts, orchestrator.WithArchive(archive))
		logger.Infof(ctx, "Transcript archive: %s", cfg.Archive.Path)
	}

	uc := orchestrator.New(sessions, registry, pool, logger, opts...)

	// 6. Session sweeper
	sweeper := session.NewSweeper(sessions, logger, cfg.Session.SweepInterval, cfg.Session.Timeout, uc.Expire)
	go sweeper.Run(ctx)

	// 7. Delivery
	throttle := middleware.NewThrottle(cfg.Throttle.RequestsPerMin)
	mw := middleware.New(logger, cfg.CORS.AllowedOrigins)

	httpHandler := agentHTTP.New(logger, uc, registry, throttle, agentHTTP.StatusInfo{
		ResponderConfigured: llmManager.Configured(),
		APIKeyConfigured:    cfg.LLM.OpenAIAPIKey != "",
		ArchiveEnabled:      cfg.Archive.Enabled,
	})
	wsHandler := agentWS.New(logger, uc, registry, throttle, agentWS.Config{
		AllowedOrigins:       cfg.CORS.AllowedOrigins,
		WriteTimeout:         cfg.WebSocket.WriteTimeout,
		ReadLimit:            cfg.WebSocket.ReadLimit,
		TeardownOnDisconnect: cfg.Session.TeardownOnDisconnect,
	})

	// 8. Hot reload
	cfg.Watch(func(next *config.Config) {
		if setter, ok := logger.(log.LevelSetter); ok {
			if err := setter.SetLevel(next.Logger.Level); err != nil {
				logger.Warnf(ctx, "Config reload: logger level: %v", err)
			}
		}
		sweeper.SetTimeout(next.Session.Timeout)
		throttle.SetRate(next.Throttle.RequestsPerMin)
		wsHandler.SetTeardownOnDisconnect(next.Session.TeardownOnDisconnect)
		logger.Infof(ctx, "Config reloaded: level=%s session_timeout=%s throttle=%d/min",
			next.Logger.Level, next.Session.Timeout, next.Throttle.RequestsPerMin)
	})

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:       logger,
		Host:         cfg.HTTPServer.Host,
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		Environment:  cfg.Environment.Name,
		Middleware:   mw,
		AgentHandler: httpHandler,
		WSHandler:    wsHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(context.Background(), "Server stopped gracefully")
}
