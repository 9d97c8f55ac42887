// Package web provides the HTTP server: routing, middleware and the cron
// scheduler for background maintenance jobs.
package web

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/justaleaf/audiovault/config"
	"github.com/justaleaf/audiovault/logger"
	"github.com/justaleaf/audiovault/util/common"
	"github.com/justaleaf/audiovault/util/crypto"
	"github.com/justaleaf/audiovault/web/controller"
	"github.com/justaleaf/audiovault/web/job"
	"github.com/justaleaf/audiovault/web/service"
)

// Server is the main web server with its controllers, services and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	auth  *controller.AuthController
	user  *controller.UserController
	audio *controller.AudioController

	userService   *service.UserService
	authService   *service.AuthService
	audioService  *service.AudioService
	yandexService *service.YandexService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initServices wires the service layer: the password hasher and the OAuth
// configuration are constructed here, once, and handed to the services
// that need them.
func (s *Server) initServices() {
	hasher := crypto.NewPasswordHasher()
	s.userService = service.NewUserService(hasher)
	s.authService = service.NewAuthService(s.userService, hasher, []byte(config.GetTokenSecret()))
	s.audioService = service.NewAudioService(config.GetStorageFolder())
	s.yandexService = service.NewYandexService(service.NewYandexConfigFromEnv(), s.userService, s.authService)
}

// initRouter initializes gin, registers middleware and controllers, and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := engine.Group("/")
	s.auth = controller.NewAuthController(g, s.authService, s.yandexService)
	s.user = controller.NewUserController(g, s.userService, s.authService)
	s.audio = controller.NewAudioController(g, s.audioService, s.authService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules background maintenance jobs.
func (s *Server) startTask() {
	if _, err := s.cron.AddJob(config.GetOrphanCleanupCron(), job.NewOrphanCleanupJob()); err != nil {
		logger.Warning("add orphan cleanup job err:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	s.initServices()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), config.GetPort())
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
