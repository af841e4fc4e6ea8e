package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/shared/auth"
	"mietrecht-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	isGuestKey   = "isGuest"

	// GuestIDHeader carries the browser-generated id of an anonymous session.
	GuestIDHeader = "X-Guest-Id"
	guestPrefix   = "guest:"
)

// GuestUserID is the owner id stored for rows created by a guest session.
func GuestUserID(guestID string) string {
	return guestPrefix + guestID
}

// publicPrefixes are served without identity.
var publicPrefixes = []string{
	"/api/v1/auth/google/",
	"/api/v1/health",
	"/api/v1/api-docs",
	"/api/v1/metrics",
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Auth resolves the caller from a Bearer JWT or, failing that, the guest
// header. A present but invalid Authorization header never falls back to
// guest identity.
func Auth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch {
		case c.Request.Method == http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		case isPublicPath(c.Request.URL.Path):
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			claims, ok := bearerClaims(tokens, header)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			setUser(c, claims)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(GuestIDHeader))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		c.Set(userIDKey, GuestUserID(guestID))
		c.Set(isGuestKey, true)
		c.Next()
	}
}

func bearerClaims(tokens *auth.Tokens, header string) (auth.Claims, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" || tokens == nil {
		return auth.Claims{}, false
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims auth.Claims) {
	c.Set(userIDKey, claims.Sub)
	c.Set(isGuestKey, false)
	if claims.Email != "" {
		c.Set(userEmailKey, claims.Email)
	}
}

// UserIDFromContext returns the owner id: a Google subject or "guest:<id>".
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// IsGuest reports whether the request was authenticated by guest header.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, ok := c.Get(isGuestKey)
	if !ok {
		return strings.HasPrefix(UserIDFromContext(c), guestPrefix)
	}
	guest, _ := val.(bool)
	return guest
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
