package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	contractRepo := repository.NewContractRepository(s.db, s.logger)
	analysisRepo := repository.NewAnalysisRepository(s.db, s.logger)

	tokens := token.NewManager([]byte(s.cfg.Auth.JWTSecret), s.cfg.TokenTTL())
	authService := service.NewAuthService(userRepo, tokens, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	contractHandler := handler.NewContractHandler(contractRepo, analysisRepo, s.logger)
	uploadHandler := handler.NewUploadHandler(contractRepo, analysisRepo, s.cfg.Uploads.Dir, s.logger)
	queryHandler := handler.NewQueryHandler(contractRepo, s.logger)

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Contract Management SaaS API",
			"version": "1.0.0",
		})
	})
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authGroup := s.router.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	authRequired := s.router.Group("")
	authRequired.Use(middleware.RequireAuth(authService, s.logger))
	{
		authRequired.GET("/auth/me", authHandler.Me)

		api := authRequired.Group("/api")
		api.GET("/contracts", contractHandler.ListContracts)
		api.POST("/contracts", contractHandler.CreateContract)
		api.POST("/contracts/search", contractHandler.SearchContracts)
		api.GET("/contracts/:id", contractHandler.GetContract)
		api.PUT("/contracts/:id", contractHandler.UpdateContract)
		api.DELETE("/contracts/:id", contractHandler.DeleteContract)
		api.GET("/contracts/:id/analysis", contractHandler.GetAnalysis)

		api.POST("/upload", uploadHandler.Upload)
		api.GET("/upload/status/:id", uploadHandler.Status)

		api.POST("/query", queryHandler.Query)
		api.GET("/query/suggestions", queryHandler.Suggestions)
		api.GET("/analytics", queryHandler.Analytics)
	}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
