package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/internal/handlers/dto"
	"github.com/thereayou/matcha-tracker/internal/services"
)

const (
	sessionNotFound = "Matcha session not found"
	sessionConflict = "Matcha session with this id already exists"
)

type MatchaSessionHandler struct {
	sessions services.SessionStore
	log      logrus.FieldLogger
}

func NewMatchaSessionHandler(sessions services.SessionStore, log logrus.FieldLogger) *MatchaSessionHandler {
	return &MatchaSessionHandler{sessions: sessions, log: log}
}

func (h *MatchaSessionHandler) CreateMatchaSession(c *gin.Context) {
	var req dto.MatchaSessionCreate
	if !bindBody(c, &req) {
		return
	}

	session := req.Model()
	if err := h.sessions.CreateMatchaSession(c.Request.Context(), &session); err != nil {
		respondError(c, h.log, err, sessionNotFound, sessionConflict)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMatchaSessionRead(session))
}

// ListMatchaSessions matches fields exactly. min_rating and max_rating bound the rating.
func (h *MatchaSessionHandler) ListMatchaSessions(c *gin.Context) {
	var q dto.MatchaSessionFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		validationResponse(c, dto.FieldErrors(err))
		return
	}
	filter, errs := q.Filter()
	if len(errs) > 0 {
		validationResponse(c, errs)
		return
	}

	sessions, err := h.sessions.ListMatchaSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err, sessionNotFound, sessionConflict)
		return
	}

	c.JSON(http.StatusOK, dto.NewMatchaSessionReads(sessions))
}

func (h *MatchaSessionHandler) GetMatchaSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.sessions.GetMatchaSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, sessionNotFound, sessionConflict)
		return
	}

	c.JSON(http.StatusOK, dto.NewMatchaSessionRead(*session))
}

func (h *MatchaSessionHandler) UpdateMatchaSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.MatchaSessionUpdate
	if !bindBody(c, &req) {
		return
	}

	session, err := h.sessions.UpdateMatchaSession(c.Request.Context(), id, req.Patch())
	if err != nil {
		respondError(c, h.log, err, sessionNotFound, sessionConflict)
		return
	}

	c.JSON(http.StatusOK, dto.NewMatchaSessionRead(*session))
}

func (h *MatchaSessionHandler) DeleteMatchaSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sessions.DeleteMatchaSession(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, sessionNotFound, sessionConflict)
		return
	}

	c.Status(http.StatusNoContent)
}
