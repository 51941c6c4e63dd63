package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	agentHTTP "multi-agent-collaboration/internal/agent/delivery/http"
	agentWS "multi-agent-collaboration/internal/agent/delivery/websocket"
	"multi-agent-collaboration/internal/model"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	if srv.mode != gin.ReleaseMode {
		srv.gin.Use(gin.Logger())
	}
	srv.gin.Use(srv.mw.Cors())

	ctx := context.Background()
	if model.ParseEnvironment(srv.environment).IsProduction() {
		srv.l.Infof(ctx, "CORS mode: production, origins=%v", srv.mw.Origins())
	} else {
		srv.l.Infof(ctx, "CORS mode: %s, origins=%v", srv.environment, srv.mw.Origins())
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the collaboration routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	agentHTTP.RegisterRoutes(srv.gin, srv.gin.Group("/api/v1"), srv.agentHandler)
	srv.l.Infof(ctx, "Collaboration routes registered: POST /process, GET /status, /api/v1/sessions")

	agentWS.RegisterRoutes(srv.gin, srv.wsHandler)
	srv.l.Infof(ctx, "Websocket routes registered: /ws/:client_id, /ws/:client_id/agent/:agent_id")
}
