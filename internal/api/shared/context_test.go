package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	traceID := GetTraceID(traced)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "original context is unchanged")
	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)), "non-string values are ignored")
}

func TestGenerateTraceID_Unique(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestGenerateFallbackTraceID(t *testing.T) {
	id := generateFallbackTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(ctx, domain.Identity{}))
	assert.False(t, ok, "an identity without an account is anonymous")

	account := &domain.Account{ID: uuid.New(), Email: "a@example.com", Role: domain.RoleStudent}
	id := domain.Identity{Kind: domain.IdentityStudent, Account: account}

	got, ok := IdentityFromContext(WithIdentity(ctx, id))
	require.True(t, ok)
	assert.Equal(t, account.ID, got.AccountID())
	assert.Equal(t, domain.IdentityStudent, got.Kind)
}
