package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/config"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/store"
)

// AuthHandler handles registration, login, token refresh and account endpoints.
type AuthHandler struct {
	identities service.IdentityService
	jwtService auth.JWTService
	authConfig *config.AuthConfig
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	identities service.IdentityService,
	jwtService auth.JWTService,
	authConfig *config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		identities: identities,
		jwtService: jwtService,
		authConfig: authConfig,
		timeFunc:   time.Now,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// WithTimeFunc sets a custom clock for expiry calculation and returns the handler.
func (h *AuthHandler) WithTimeFunc(timeFunc func() time.Time) *AuthHandler {
	h.timeFunc = timeFunc
	return h
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	identity, err := h.identities.Register(r.Context(), req.params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, &identity)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	identity, err := h.identities.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid email or password", err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, &identity)
}

// RefreshToken handles POST /auth/refresh. The account must still exist;
// a new access and refresh token pair is issued.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}

	identity, err := h.identities.Resolve(r.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, &identity)
}

// Me handles GET /me and returns the resolved identity of the caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, actor)
}

// ApproveReviewer handles POST /reviewers/{id}/approve.
func (h *AuthHandler) ApproveReviewer(w http.ResponseWriter, r *http.Request) {
	actor, reviewerID, ok := identityAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	reviewer, err := h.identities.ApproveReviewer(r.Context(), actor, reviewerID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reviewer)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, identity *domain.Identity) {
	resp, err := h.generateTokenResponse(r.Context(), identity.AccountID())
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate tokens",
			slog.String("error", err.Error()),
			slog.String("account_id", identity.AccountID().String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication tokens")
		return
	}
	resp.Identity = identity
	shared.RespondWithJSON(w, r, status, resp)
}

// generateTokenResponse issues an access and refresh token pair for an account.
func (h *AuthHandler) generateTokenResponse(ctx context.Context, accountID uuid.UUID) (AuthResponse, error) {
	accessToken, err := h.jwtService.GenerateToken(ctx, accountID)
	if err != nil {
		return AuthResponse{}, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(ctx, accountID)
	if err != nil {
		return AuthResponse{}, err
	}

	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.timeFunc().Add(lifetime).UTC().Format(time.RFC3339),
	}, nil
}
