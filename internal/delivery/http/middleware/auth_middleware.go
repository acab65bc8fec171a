package middleware

import (
	"context"
	"net/http"
	"strings"

	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the cookie login and signup set for browser clients.
const AuthCookieName = "auth_token"

const ctxKeyCookieAuth = "cookie_auth"

// AuthMiddleware rejects requests without a valid session token.
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie := extractToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		setIdentity(c, claims, fromCookie)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets anonymous requests through otherwise.
func OptionalAuth(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, fromCookie := extractToken(c); tokenString != "" {
			if claims, err := issuer.Parse(tokenString); err == nil {
				setIdentity(c, claims, fromCookie)
			}
		}
		c.Next()
	}
}

// extractToken prefers the Authorization header over the cookie. Browsers
// cannot set headers on websocket handshakes, so upgrades may also pass ?token=.
func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), false
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token"), false
	}
	return "", false
}

func setIdentity(c *gin.Context, claims *auth.Claims, fromCookie bool) {
	c.Set(string(domain.KeyUserID), claims.Subject)
	c.Set(string(domain.KeyUsername), claims.Username)
	c.Set(string(domain.KeyUserEmail), claims.Email)
	c.Set(ctxKeyCookieAuth, fromCookie)

	ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, claims.Subject)
	ctx = context.WithValue(ctx, domain.KeyUsername, claims.Username)
	ctx = context.WithValue(ctx, domain.KeyUserEmail, claims.Email)
	c.Request = c.Request.WithContext(ctx)
}
