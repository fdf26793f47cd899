package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/ganymede-go/api/controllers"
	"github.com/moyoez/ganymede-go/api/middlewares"
	"github.com/moyoez/ganymede-go/api/notifyhub"
	"github.com/moyoez/ganymede-go/auth"
	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/notify"
	"github.com/moyoez/ganymede-go/syncclient"
	"github.com/moyoez/ganymede-go/tool"
)

// Deps are the components served by the API.
type Deps struct {
	Store  *conf.Store
	Sync   *syncclient.Client
	Flow   *auth.Flow
	Tokens *auth.TokenStore
	Hub    *notifyhub.Hub // nil disables /notify-ws
}

// Server is the loopback HTTP API used by the webview.
type Server struct {
	port   int
	deps   Deps
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(port int, deps Deps) *Server {
	return &Server{
		port: port,
		deps: deps,
	}
}

// Handler builds the routes. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.AllowAllCORS())

	confCtrl := controllers.NewConfController(s.deps.Store)
	syncCtrl := controllers.NewSyncController(s.deps.Sync)
	oauthCtrl := controllers.NewOAuthController(s.deps.Flow, s.deps.Tokens, s.deps.Store)

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/conf", confCtrl.HandleGet)
		self.PUT("/conf", confCtrl.HandleSet)
		self.POST("/conf/toggle-checkbox", confCtrl.HandleToggleCheckbox)
		self.POST("/conf/current-step", confCtrl.HandleCurrentStep)
		self.POST("/conf/reset", confCtrl.HandleReset)

		self.POST("/sync/profiles", syncCtrl.HandleSyncProfiles)
		self.POST("/sync/profile", syncCtrl.HandleCreateProfile)
		self.PATCH("/sync/profile/:serverId", syncCtrl.HandleRenameProfile)
		self.DELETE("/sync/profile/:serverId", syncCtrl.HandleDeleteProfile)
		self.PUT("/sync/profile/:serverId/progress/:guideId", syncCtrl.HandleSyncProgress)
		self.POST("/sync/progress/:guideId", syncCtrl.HandlePushActiveProgress)
		self.GET("/user/me", syncCtrl.HandleMe)

		self.POST("/oauth/start", oauthCtrl.HandleStart)
		self.GET("/oauth/tokens", oauthCtrl.HandleGetTokens)
		self.DELETE("/oauth/tokens", oauthCtrl.HandleCleanTokens)
		self.POST("/deep-link", oauthCtrl.HandleDeepLink)

		self.GET("/status", controllers.UserStatus(s.deps.Tokens))
		if s.deps.Hub != nil && notify.NotifyWSEnabled() {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.deps.Hub))
		}
	}

	return engine
}

// Start serves on 127.0.0.1 until Shutdown is called.
func (s *Server) Start() error {
	engine := s.setupRoutes()
	addr := net.JoinHostPort("127.0.0.1", fmt.Sprint(s.port))

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
