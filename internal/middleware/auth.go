package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

// GuestIDHeader carries the identity of a visitor who has not signed in.
// The storefront mints one on first visit and replays it so carts and
// chat threads survive across requests.
const GuestIDHeader = "X-Guest-ID"

func parseBearer(r *http.Request, jwtSecret string) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, jwt.ErrTokenMalformed
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func contextWithClaims(ctx context.Context, claims jwt.MapClaims) (context.Context, bool) {
	userID, ok := claims["user_id"].(string)
	if !ok {
		return ctx, false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return ctx, false
	}
	email, _ := claims["email"].(string)

	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx, true
}

// AuthMiddleware validates JWT tokens and extracts user claims
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(r, jwtSecret)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if err == jwt.ErrTokenExpired {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid or missing token")
				}
				return
			}

			ctx, ok := contextWithClaims(r.Context(), claims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches user claims when a valid token is
// present but lets anonymous requests through. Storefront endpoints use
// it so guests can browse, fill carts and chat before signing in.
func OptionalAuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseBearer(r, jwtSecret)
			if err != nil {
				logger.Debug("Ignoring invalid token on optional-auth route", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx, ok := contextWithClaims(r.Context(), claims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserEmail extracts user email from request context
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// CartOwner resolves the identity that keys the request's cart and chat
// thread: the authenticated user ID when present, otherwise the guest ID
// header. Empty when neither is supplied.
func CartOwner(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return userID
	}
	return r.Header.Get(GuestIDHeader)
}
