package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/internal/handlers"
	"github.com/thereayou/matcha-tracker/internal/handlers/dto"
	"github.com/thereayou/matcha-tracker/internal/middleware"
	"github.com/thereayou/matcha-tracker/internal/services"
)

func APIEndpoints(r *gin.Engine, healthH *handlers.HealthHandler, userH *handlers.UserHandler, sessionH *handlers.MatchaSessionHandler) {
	r.GET("/", healthH.Welcome)
	r.GET("/health", healthH.Health)
	r.GET("/health/:path_echo", healthH.Health)

	users := r.Group("/users")
	{
		users.POST("", userH.CreateUser)
		users.GET("", userH.ListUsers)
		users.GET("/:id", userH.GetUser)
		users.PUT("/:id", userH.UpdateUser)
		users.DELETE("/:id", userH.DeleteUser)
	}

	sessions := r.Group("/matcha-sessions")
	{
		sessions.POST("", sessionH.CreateMatchaSession)
		sessions.GET("", sessionH.ListMatchaSessions)
		sessions.GET("/:id", sessionH.GetMatchaSession)
		sessions.PUT("/:id", sessionH.UpdateMatchaSession)
		sessions.DELETE("/:id", sessionH.DeleteMatchaSession)
	}
}

// NewRouter builds the engine with the middleware chain and every route.
// rateLimit is optional.
func NewRouter(log *logrus.Logger, users services.UserStore, sessions services.SessionStore, rateLimit gin.HandlerFunc) *gin.Engine {
	dto.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	if rateLimit != nil {
		router.Use(rateLimit)
	}

	APIEndpoints(router,
		handlers.NewHealthHandler(),
		handlers.NewUserHandler(users, log),
		handlers.NewMatchaSessionHandler(sessions, log),
	)
	return router
}
