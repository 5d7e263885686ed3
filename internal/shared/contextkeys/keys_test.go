package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeys_AreDistinct(t *testing.T) {
	keys := []interface{}{UserIDKey, UserEmailKey, RequestIDKey, ComponentKey, OperationKey}
	seen := make(map[interface{}]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate context key: %v", k)
		seen[k] = true
	}
}

func TestContextKeys_RoundTrip(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "user-123")
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")

	assert.Equal(t, "user-123", ctx.Value(UserIDKey))
	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Nil(t, ctx.Value(UserEmailKey))
}

func TestContextKey_String(t *testing.T) {
	assert.Contains(t, UserIDKey.String(), "campus-facilities")
	assert.Contains(t, UserIDKey.String(), "userID")
}
