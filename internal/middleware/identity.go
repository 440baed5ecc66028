// identity.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"order-workflow-service/internal/service"
)

// Identity resolves the acting user's role from the injected order data
// and stores the actor in the request context. There is no token here:
// identity is asserted by the trusted host embedding this service.
func Identity(engine *service.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			c.Abort()
			return
		}

		actor, err := engine.ResolveActor(userID)
		if err != nil {
			if errors.Is(err, service.ErrNotReady) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			}
			c.Abort()
			return
		}

		c.Set("actorID", actor.ID)
		c.Set("actorRole", string(actor.Role))
		c.Next()
	}
}
