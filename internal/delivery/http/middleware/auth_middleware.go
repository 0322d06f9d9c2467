package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"family-health-dashboard/internal/dashboard"
	"family-health-dashboard/internal/usecase"
	"family-health-dashboard/pkg/jwt"
	"family-health-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	IdentityKey  contextKey = "identity"
	TokenIDKey   contextKey = "token_id"
	RawTokenKey  contextKey = "raw_token"
	DashboardKey contextKey = "dashboard"
)

type AuthMiddleware struct {
	jwtService     *jwt.JWTService
	sessionUsecase usecase.SessionUsecase
	registry       *dashboard.Registry
	log            *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionUsecase usecase.SessionUsecase, registry *dashboard.Registry, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:     jwtService,
		sessionUsecase: sessionUsecase,
		registry:       registry,
		log:            log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		// Check if token exists in Redis (not revoked)
		live, err := m.sessionUsecase.IsLive(r.Context(), claims.Identity, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !live {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, claims.Identity)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
		ctx = context.WithValue(ctx, RawTokenKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AttachDashboard resolves the running dashboard of the authenticated session,
// reopening it when this process has none. Must run after Authenticate.
func (m *AuthMiddleware) AttachDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenID, ok := GetTokenIDFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}
		rawToken, _ := r.Context().Value(RawTokenKey).(string)

		d, err := m.registry.Acquire(r.Context(), tokenID, rawToken)
		if errors.Is(err, dashboard.ErrClosed) {
			response.ServiceUnavailable(w, "Server is shutting down")
			return
		}
		if err != nil {
			m.log.Warnf("Failed to acquire dashboard: %+v", err)
			response.Unauthorized(w, "Session could not be established")
			return
		}

		ctx := context.WithValue(r.Context(), DashboardKey, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityFromContext extracts the session identity from context
func GetIdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityKey).(string)
	return identity, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

func GetDashboardFromContext(ctx context.Context) (*dashboard.Dashboard, bool) {
	d, ok := ctx.Value(DashboardKey).(*dashboard.Dashboard)
	return d, ok && d != nil
}
