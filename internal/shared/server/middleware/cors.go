package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMaxAge       = "600"
	corsAllowMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Guest-Id, X-Request-Id"
	corsExposeHeader = "X-Request-Id, Retry-After"
)

// originMatcher accepts exact origins, "*" and subdomain patterns such as
// "https://*.mietrecht.example".
type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string
	any      bool
}

func newOriginMatcher(allowed []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{})}
	for _, raw := range allowed {
		o := strings.TrimRight(strings.TrimSpace(raw), "/")
		switch {
		case o == "":
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			m.suffixes = append(m.suffixes, scheme+"://|"+host)
		default:
			m.exact[o] = struct{}{}
		}
	}
	return m
}

// match reports whether origin may call the API and whether it was listed
// explicitly. Credentials are only allowed for explicit entries.
func (m originMatcher) match(origin string) (allowed, explicit bool) {
	if _, ok := m.exact[origin]; ok {
		return true, true
	}
	for _, s := range m.suffixes {
		scheme, hostSuffix, _ := strings.Cut(s, "|")
		if rest, ok := strings.CutPrefix(origin, scheme); ok && strings.HasSuffix(rest, hostSuffix) && len(rest) > len(hostSuffix) {
			return true, true
		}
	}
	return m.any, false
}

// CORS sets CORS headers for allow-listed origins and answers preflight
// requests with 204.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	matcher := newOriginMatcher(allowedOrigins)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if origin := c.GetHeader("Origin"); origin != "" {
			if ok, explicit := matcher.match(origin); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				if explicit {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", corsExposeHeader)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
