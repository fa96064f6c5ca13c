package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialcore/internal/adapters/httpapi/middleware"
	"socialcore/internal/config"
	"socialcore/internal/core/account"
	"socialcore/internal/core/relationship"
)

// writeError maps domain errors to status codes. Anything unknown, storage
// failures included, is a 500 and is logged.
func writeError(c *gin.Context, err error, notFound int) {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, verr)
	case errors.Is(err, account.ErrNotFound):
		c.JSON(notFound, gin.H{"error": http.StatusText(notFound)})
	case errors.Is(err, relationship.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, relationship.ErrAlreadyFollowing), errors.Is(err, relationship.ErrEdgeNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		config.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.ContextKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return "", false
	}
	return v.(string), true
}
