package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/internal/config"
	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Config     *config.Config
	Log        *logrus.Logger
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	HTTPServer *http.Server
}

func NewServer() (*Server, error) {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DB, log); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	dbConn.Init(ctx, log)
	cancel()

	var rdb *redis.Client
	var rateLimit gin.HandlerFunc
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opts)
		rateLimit = middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow, log)
		log.Infof("Rate limiting enabled: %d requests per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(log, dbConn, dbConn, rateLimit)

	return &Server{
		Config: cfg,
		Log:    log,
		Router: router,
		DB:     dbConn,
		Redis:  rdb,
		HTTPServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.Log.Infof("Server starting on port %s", s.Config.Port)
		if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			s.close()
			return err
		}
	case sig := <-quit:
		s.Log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.HTTPServer.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Log.WithError(err).Warn("Error closing Redis connection")
		}
	}
	if err := s.DB.Close(); err != nil {
		s.Log.WithError(err).Warn("Error closing database connection")
	}
	s.Log.Info("Server stopped")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}
