package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "conversation:1_2", `{"a":1}`))
		v, ok, err := s.Get(ctx, "conversation:1_2")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"a":1}`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", "one"))
		require.NoError(t, s.Set(ctx, "k", "two"))
		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "two", v)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "x", "1"))
		require.NoError(t, s.Set(ctx, "y", "2"))
		require.NoError(t, s.Clear(ctx))

		for _, key := range []string{"x", "y", "k", "conversation:1_2"} {
			_, ok, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok, "key %s should be gone", key)
		}

		require.NoError(t, s.Set(ctx, "x", "again"))
		v, ok, err := s.Get(ctx, "x")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "again", v)
	})
}
