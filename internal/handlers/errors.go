package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/handlers/dto"
)

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func validationResponse(c *gin.Context, details []dto.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": details,
	})
}

// respondError maps data-access errors onto HTTP statuses. Anything that is
// neither a missing record nor a uniqueness conflict is a storage failure.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		errorResponse(c, http.StatusNotFound, notFound)
	case errors.Is(err, database.ErrConflict):
		errorResponse(c, http.StatusBadRequest, conflict)
	default:
		log.WithError(err).
			WithField("path", c.FullPath()).
			Error("Storage operation failed")
		errorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindBody decodes and validates the request body, answering 422 with every
// failing field when it does not fit obj.
func bindBody(c *gin.Context, obj any) bool {
	body, err := c.GetRawData()
	if err != nil {
		validationResponse(c, []dto.FieldError{{Field: "body", Reason: err.Error()}})
		return false
	}
	if errs := dto.BindJSON(body, obj); len(errs) > 0 {
		validationResponse(c, errs)
		return false
	}
	return true
}

// pathID parses the :id segment, answering 422 itself when it is not a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		validationResponse(c, []dto.FieldError{{Field: "id", Reason: "must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}
