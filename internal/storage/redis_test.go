package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	rs := NewRedisStore(addr, "", 0)
	rs.prefix = "fm-test:" + uuid.NewString() + ":"
	defer rs.Close()

	require.NoError(t, rs.Ping(context.Background()))
	exerciseStore(t, rs)
}
