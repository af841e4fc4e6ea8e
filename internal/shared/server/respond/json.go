package respond

import "github.com/gin-gonic/gin"

// JSON writes payload with the given status. API responses carry per-user
// data and must not be cached by intermediaries.
func JSON(c *gin.Context, status int, payload any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}
