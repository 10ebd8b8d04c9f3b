package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
)

// getPathUUID parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "must be a valid UUID")
	}
	return id, nil
}

// pathUUID parses a UUID path parameter and writes a 400 when it is invalid.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}

// requireIdentity returns the identity resolved by the auth middleware and
// writes a 401 when the request is anonymous.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return domain.Identity{}, false
	}
	return id, true
}

// identityAndPathUUID combines requireIdentity and pathUUID.
func identityAndPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (domain.Identity, uuid.UUID, bool) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return domain.Identity{}, uuid.Nil, false
	}
	id, ok := pathUUID(w, r, paramName)
	if !ok {
		return domain.Identity{}, uuid.Nil, false
	}
	return actor, id, true
}

// decodeRequest decodes and validates the body into v, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeAndValidate(r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// queryList splits repeated and comma-separated query values.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "must be true or false")
	}
	return &b, nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
