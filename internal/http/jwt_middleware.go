package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"compass/internal/service"
)

const (
	authClaimsKey = "auth_claims"
	bearerPrefix  = "bearer "
)

// JWTAuthMiddleware exige un access token vigente. Los refresh tokens no sirven como access.
// El usuario queda en el contexto de gin y como atributo del span de la request.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			rejectToken(c, "missing token")
			return
		}

		claims, err := jwtSvc.ParseAccessToken(token)
		switch {
		case errors.Is(err, service.ErrJWTExpired):
			rejectToken(c, "token expired")
			return
		case err != nil:
			rejectToken(c, "invalid token")
			return
		}

		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("enduser.id", claims.UserID))
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims devuelve los claims que dejo JWTAuthMiddleware.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func rejectToken(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="compass"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
