package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/store"
)

// IdentityResolver loads the identity an account acts with.
type IdentityResolver interface {
	Resolve(ctx context.Context, accountID uuid.UUID) (domain.Identity, error)
}

// AuthMiddleware authenticates bearer tokens and resolves the acting
// identity once per request.
type AuthMiddleware struct {
	jwtService auth.JWTService
	identities IdentityResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, identities IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		identities: identities,
	}
}

// Authenticate rejects requests without a valid access token. The resolved
// identity is stored with shared.WithIdentity.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.handler(next, true)
}

// Optional resolves the identity when a token is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return m.handler(next, false)
}

func (m *AuthMiddleware) handler(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if required {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		ctx := r.Context()
		claims, err := m.jwtService.ValidateToken(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		identity, err := m.identities.Resolve(ctx, claims.AccountID)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Account no longer exists", err,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		log := logger.FromContext(ctx).With(
			slog.String("account_id", identity.AccountID().String()),
			slog.String("identity", string(identity.Kind)))
		ctx = logger.WithLogger(shared.WithIdentity(ctx, identity), log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
