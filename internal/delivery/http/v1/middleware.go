package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"task-api/internal/models"
	"task-api/internal/services"
)

const currentUserCtxKey = "current_user"

// HandleAuthMiddleware validates the bearer token and attaches the
// resolved user to the request context. Missing, corrupt and expired
// tokens are all rejected with 403.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newForbiddenError("invalid authorization header"))
		return
	}

	user, err := h.auth.Authenticate(c, parts[1])
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedToken),
			errors.Is(err, services.ErrUnauthenticated):
			h.logger.Error().
				Err(err).
				Msg("rejected bearer token")
			abort(c, newForbiddenError("invalid or expired token"))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to authenticate request")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Set(currentUserCtxKey, user)
	c.Next()
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
