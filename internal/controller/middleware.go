package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

const currentUserKey = "currentUser"

// Identity resolves the authenticated user from the X-User-ID header set by
// the auth proxy in front of this service. A missing or unknown id leaves
// the request anonymous; handlers that need a user enforce it themselves so
// guest-readable endpoints keep working.
func Identity(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Warn().Str("header", raw).Msg("Malformed X-User-ID header")
			c.Next()
			return
		}
		user, err := userRepo.FindByID(uint(id))
		if err != nil {
			log.Warn().Err(err).Uint64("userId", id).Msg("Unknown user id in header")
			c.Next()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// requireUser aborts with 401 when the request carries no resolvable user.
func requireUser(c *gin.Context) (*model.User, bool) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return nil, false
	}
	return user, true
}
