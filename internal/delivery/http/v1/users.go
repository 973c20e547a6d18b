package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.logger.Error().Msg("no user found in context")
		abort(c, newForbiddenError("missing bearer token"))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
