package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/internal/handlers/dto"
	"github.com/thereayou/matcha-tracker/internal/services"
)

const (
	userNotFound = "User not found"
	userConflict = "Username, email or session id already exists"
)

type UserHandler struct {
	users services.UserStore
	log   logrus.FieldLogger
}

func NewUserHandler(users services.UserStore, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// CreateUser stores the user together with any embedded sessions.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.UserCreate
	if !bindBody(c, &req) {
		return
	}

	user := req.Model()
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, h.log, err, userNotFound, userConflict)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserRead(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q dto.UserFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		validationResponse(c, dto.FieldErrors(err))
		return
	}
	filter, errs := q.Filter()
	if len(errs) > 0 {
		validationResponse(c, errs)
		return
	}

	users, err := h.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err, userNotFound, userConflict)
		return
	}

	result := make([]dto.UserRead, 0, len(users))
	for _, u := range users {
		result = append(result, dto.NewUserRead(u))
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, userNotFound, userConflict)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserRead(*user))
}

// UpdateUser changes only the fields present in the body. matcha_sessions
// replaces the user's whole session set.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UserUpdate
	if !bindBody(c, &req) {
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, req.Patch())
	if err != nil {
		respondError(c, h.log, err, userNotFound, userConflict)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserRead(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, userNotFound, userConflict)
		return
	}

	c.Status(http.StatusNoContent)
}
