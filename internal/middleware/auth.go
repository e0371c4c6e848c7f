package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// JWTAuth validates the bearer token and propagates the acting identity to
// handlers via request headers. Role and franchise travel in the token so the
// visibility rules downstream never trust client-supplied headers.
func JWTAuth(secret string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			// Scrub inbound copies before trusting the claims.
			ctx.Request.Header.Del("X-Actor-ID")
			ctx.Request.Header.Del("X-Actor-Role")
			ctx.Request.Header.Del("X-Franchise-ID")

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if actorID, ok := claims["actor_id"].(string); ok {
					ctx.Request.Header.Set("X-Actor-ID", actorID)
				}
				if role, ok := claims["role"].(string); ok {
					ctx.Request.Header.Set("X-Actor-Role", role)
				}
				if franchiseID, ok := claims["franchise_id"].(string); ok {
					ctx.Request.Header.Set("X-Franchise-ID", franchiseID)
				}
			}

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
