// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order-workflow-service/internal/model"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("actorRole") != string(model.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
