package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirawit/examportal/config"
	"github.com/sirawit/examportal/internal/authz"
	"github.com/sirawit/examportal/internal/dto"
)

const ContextUserIDKey = "user_id"

// RequireAuth resolves the current user from the bearer token and stores the
// user id in the gin context. Requests without a valid token are rejected.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid token subject"})
			return
		}

		ctx.Set(ContextUserIDKey, userID)
		ctx.Next()
	}
}

// RequireAdmin consults the authorization policy once per request. It must be
// registered after RequireAuth.
func RequireAdmin(policy authz.Policy) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := CurrentUserID(ctx)
		decision := policy.EvaluateAdmin(userID)
		if !decision.Allow {
			status := http.StatusForbidden
			if decision.Reason == authz.ReasonUnauthenticated {
				status = http.StatusUnauthorized
			}
			ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Message: "Admin access denied", Details: []string{decision.Reason}})
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user id, or uuid.Nil when absent.
func CurrentUserID(ctx *gin.Context) uuid.UUID {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
