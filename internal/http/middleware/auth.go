package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
)

// AuthMiddleware разрешает вызывающего по заголовку Authorization: Bearer
// либо по httpOnly cookie с токеном.
func AuthMiddleware(identity service.IdentityProvider, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := credentialFrom(c, cookieName)
		if credential == "" {
			response.Error(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		userID, err := identity.ResolveCaller(credential)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func credentialFrom(c *gin.Context, cookieName string) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil {
			return token
		}
	}
	return ""
}
