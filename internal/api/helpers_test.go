package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func testAccount(role domain.Role) *domain.Account {
	return &domain.Account{ID: uuid.New(), Email: string(role) + "@example.com", Role: role}
}

func studentActor() domain.Identity {
	account := testAccount(domain.RoleStudent)
	return domain.ResolveIdentity(account, &domain.Student{ID: uuid.New(), AccountID: account.ID}, nil)
}

func reviewerActor(approved bool) domain.Identity {
	account := testAccount(domain.RoleReviewer)
	return domain.ResolveIdentity(account, nil, &domain.Reviewer{ID: uuid.New(), AccountID: account.ID, IsApproved: approved})
}

func adminActor() domain.Identity {
	return domain.ResolveIdentity(testAccount(domain.RoleAdmin), nil, nil)
}

// newRequest builds a request with an optional JSON body. A string body is
// sent verbatim.
func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asActor(r *http.Request, actor domain.Identity) *http.Request {
	return r.WithContext(shared.WithIdentity(r.Context(), actor))
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func serve(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decodeResponse[shared.ErrorResponse](t, w)
}
