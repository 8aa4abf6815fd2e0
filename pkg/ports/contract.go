package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Start and Get", func(t *testing.T) {
		replaced, err := store.Start(ctx, sessionID, "root")
		require.NoError(t, err, "Start should not return error")
		assert.False(t, replaced)

		addr, err := store.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "root", addr)
	})

	t.Run("Set", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, sessionID, "root::A"))

		addr, err := store.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "root::A", addr)
	})

	t.Run("Restart Resets", func(t *testing.T) {
		replaced, err := store.Start(ctx, sessionID, "root")
		require.NoError(t, err)
		assert.True(t, replaced, "Start over a live session should report replacement")

		addr, err := store.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "root", addr)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrNotStarted)
	})

	t.Run("Set Non-Existent", func(t *testing.T) {
		err := store.Set(ctx, "non-existent-"+sessionID, "root::A")
		assert.ErrorIs(t, err, domain.ErrNotStarted)

		_, err = store.Get(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrNotStarted, "Set must not create sessions")
	})

	t.Run("End", func(t *testing.T) {
		existed, err := store.End(ctx, sessionID)
		require.NoError(t, err, "End should not return error")
		assert.True(t, existed)

		_, err = store.Get(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrNotStarted, "Get after End should return ErrNotStarted")

		existed, err = store.End(ctx, sessionID)
		require.NoError(t, err, "End of an unknown session is a no-op")
		assert.False(t, existed)
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_, _ = store.Start(ctx, id1, "root")
		_, _ = store.Start(ctx, id2, "root")

		defer func() {
			_, _ = store.End(ctx, id1)
			_, _ = store.End(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})

	t.Run("Independent Sessions", func(t *testing.T) {
		id1 := sessionID + "-a"
		id2 := sessionID + "-b"
		_, _ = store.Start(ctx, id1, "root")
		_, _ = store.Start(ctx, id2, "root")
		defer func() {
			_, _ = store.End(ctx, id1)
			_, _ = store.End(ctx, id2)
		}()

		require.NoError(t, store.Set(ctx, id1, "root::X"))

		addr, err := store.Get(ctx, id2)
		require.NoError(t, err)
		assert.Equal(t, "root", addr)
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, _ = store.Start(ctx, id, "root")
				_ = store.Set(ctx, id, "root::A")
				_, _ = store.Get(ctx, id)
				_, _ = store.End(ctx, id)
			}(sessionID + "-c" + string(rune('0'+i)))
		}
		wg.Wait()
	})
}
