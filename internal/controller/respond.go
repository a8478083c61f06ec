package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnifypk/backend/internal/apperror"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto HTTP statuses. Anything without a
// known kind is a 500 with a generic message; the detail stays in the log.
func respondError(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case apperror.KindInvalidInput:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case apperror.KindForbidden:
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case apperror.KindConflict:
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case apperror.KindExternalConfig:
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}
