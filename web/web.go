// Package web provides the HTTP server of the image repository: routing,
// middleware and the background revocation-list maintenance job.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/iceDeerStudio/Image-Repository-API/config"
	"github.com/iceDeerStudio/Image-Repository-API/logger"
	"github.com/iceDeerStudio/Image-Repository-API/storage"
	"github.com/iceDeerStudio/Image-Repository-API/util/common"
	"github.com/iceDeerStudio/Image-Repository-API/web/controller"
	"github.com/iceDeerStudio/Image-Repository-API/web/entity"
	"github.com/iceDeerStudio/Image-Repository-API/web/middleware"
	"github.com/iceDeerStudio/Image-Repository-API/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the image repository web server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	session *controller.SessionController
	users   *controller.UserController
	images  *controller.ImageController
	albums  *controller.AlbumController

	tokenService *service.TokenService
	userService  service.UserService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes gin, registers middleware and controllers and
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
	engine.MaxMultipartMemory = config.GetMaxUploadSize()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	store, err := storage.NewStore(config.GetStoragePath())
	if err != nil {
		return nil, err
	}
	s.tokenService = service.NewTokenService()

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: "service is healthy"})
	})
	engine.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: config.GetVersion()})
	})

	// Session endpoints authenticate with the refresh token themselves.
	s.session = controller.NewSessionController(engine.Group("/session"), s.tokenService)

	// Everything else resolves the access-token principal once per request.
	api := engine.Group("/")
	api.Use(middleware.PrincipalResolver(s.tokenService, &s.userService))
	s.users = controller.NewUserController(api.Group("/users"))
	s.images = controller.NewImageController(api.Group("/images"), store)
	s.albums = controller.NewAlbumController(api.Group("/albums"))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, entity.Msg{Success: false, Msg: "not found"})
	})

	return engine, nil
}

// startTask schedules the revocation-list prune. Rows older than the refresh
// token lifetime belong to tokens that expired on their own.
func (s *Server) startTask() {
	s.cron.AddFunc("@daily", func() {
		pruned, err := s.tokenService.PruneRevoked()
		if err != nil {
			logger.Warning("prune revoked tokens failed:", err)
			return
		}
		if pruned > 0 {
			logger.Infof("pruned %d expired revocation entries", pruned)
		}
	})
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

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
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

// Stop gracefully shuts down the web server and the cron scheduler.
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
