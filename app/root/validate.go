package root

import (
	"net/http"

	"akshit029/vig-api/internal/model"

	"github.com/gin-gonic/gin"
)

// Validate sits behind the JWT middleware, so reaching it at all means
// the token checked out. Returns the caller's identity for the frontend
func Validate(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"userId": user.ID,
		"role":   user.Role,
	})
}
