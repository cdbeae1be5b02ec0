package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"github.com/yungbote/barky-backend/internal/platform/logger"
	"github.com/yungbote/barky-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Authenticate attaches the caller when credentials are present. Requests without an
// Authorization header continue anonymously; bad credentials are rejected with 401.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		var err error
		switch {
		case len(header) > 7 && strings.EqualFold(header[:7], "Bearer "):
			ctx, err = am.authService.SetContextFromToken(ctx, strings.TrimSpace(header[7:]))
		case len(header) > 6 && strings.EqualFold(header[:6], "Basic "):
			username, password, ok := c.Request.BasicAuth()
			if !ok {
				err = services.ErrUnauthorized
				break
			}
			ctx, err = am.authService.SetContextFromBasic(ctx, username, password)
		default:
			err = services.ErrUnauthorized
		}
		if err != nil {
			am.log.Debug("Rejected credentials", "error", err)
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			response.RespondServiceError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.UserID(c.Request.Context()) == uuid.Nil {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errAuthRequired)
			return
		}
		c.Next()
	}
}
