package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/feipenta/penta-web/internal/config"
	"github.com/feipenta/penta-web/internal/generator"
	"github.com/feipenta/penta-web/internal/logger"
	"github.com/feipenta/penta-web/internal/server/handler"
	"github.com/feipenta/penta-web/internal/stub"
	"github.com/feipenta/penta-web/internal/submission"
	"github.com/feipenta/penta-web/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the pieces the router serves.
type Deps struct {
	Submissions *submission.Handler
	Alerts      *submission.AlertQueue
	Responder   *stub.Responder // nil keeps the stand-in endpoint off
	APIKey      string // guards the json api and pprof routes
	Pprof       bool
}

func Start(cfg *config.Config) {
	alerts := submission.NewAlertQueue()
	client := generator.NewClient(cfg.Generator.Endpoint, cfg.Generator.Timeout)
	deps := Deps{
		Submissions: submission.NewHandler(client, alerts),
		Alerts:      alerts,
		APIKey:      cfg.Server.APIKey,
		Pprof:       cfg.Server.Pprof,
	}
	if cfg.Stub.Enabled {
		responder, err := stub.NewResponder(cfg.Stub.LogDir)
		if err != nil {
			logger.Errorf("failed to start stub responder, err: %s", err)
			panic(err)
		}
		defer responder.Close()
		deps.Responder = responder
		logger.Infof("stub generation endpoint enabled, acquisitions logged to %s", cfg.Stub.LogDir)
	}
	logger.Infof("generation endpoint: %s", client.Endpoint())

	router := InitRouter(deps)
	if err := router.Run(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
		panic(err)
	}
}

// PermissionCheckMiddleware rejects requests without the API-KEY header.
// An empty apiKey lets everything through.
func PermissionCheckMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		requestKey := c.GetHeader("API-KEY")
		if requestKey != apiKey {
			logger.Warnf("rejected request to %s, invalid API key", c.Request.URL.Path)
			utils.GinAbortWithMessage(c, http.StatusUnauthorized, "Invalid API key")
			return
		}
		c.Next()
	}
}

func InitRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.RecoveryWithZap(logger.ZapLogger, true))
	router.Use(ginzap.Ginzap(logger.ZapLogger, time.RFC3339Nano, true))
	router.Use(cors.Default())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	if deps.Pprof {
		pprof.RouteRegister(router.Group("", PermissionCheckMiddleware(deps.APIKey)), pprof.DefaultPrefix)
	}

	prompts := &handler.PromptHandler{
		Submissions: deps.Submissions,
		Alerts:      deps.Alerts,
	}
	router.GET("/", prompts.ShowPage)
	router.POST("/", prompts.SubmitForm)

	apiGroup := router.Group("/api", PermissionCheckMiddleware(deps.APIKey))
	apiGroup.POST("/prompt", prompts.CreatePrompt)
	apiGroup.GET("/state", prompts.GetState)

	if deps.Responder != nil {
		stubHandler := &handler.StubGenerateHandler{Responder: deps.Responder}
		router.POST("/generate", stubHandler.Generate)
		router.GET("/generate", handler.StubRoot)
	}
	return router
}
