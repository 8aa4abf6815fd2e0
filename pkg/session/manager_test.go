package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anaradzetski/keyboard/pkg/adapters/memory"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/ports"
	"github.com/anaradzetski/keyboard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Get(ctx context.Context, sessionID string) (string, error) {
	time.Sleep(time.Millisecond)
	return s.Store.Get(ctx, sessionID)
}

func (s *SlowStore) Set(ctx context.Context, sessionID, address string) error {
	time.Sleep(time.Millisecond)
	return s.Store.Set(ctx, sessionID, address)
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_, _, err := manager.Start(ctx, id, "0")
	require.NoError(t, err)

	// Each writer appends one character; without serialisation updates are lost.
	var wg sync.WaitGroup
	concurrentWrites := 20
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				cur, err := manager.Store().Get(ctx, id)
				if err != nil {
					return err
				}
				return manager.Store().Set(ctx, id, cur+"+")
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := manager.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, final, 1+concurrentWrites)
}

func TestManager_SessionsRunInParallel(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	inA := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = manager.WithLock(ctx, "a", func(ctx context.Context) error {
			close(inA)
			<-release
			return nil
		})
	}()
	<-inA

	go func() {
		_ = manager.WithLock(ctx, "b", func(ctx context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session b was blocked by session a")
	}
	close(release)
}

func TestManager_StartEnd(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, replaced, err := manager.Start(ctx, "s", "root")
	require.NoError(t, err)
	assert.False(t, replaced)

	require.NoError(t, manager.Store().Set(ctx, "s", "root::A"))
	previous, replaced, err := manager.Start(ctx, "s", "root")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, "root::A", previous)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, ids)

	existed, err := manager.End(ctx, "s")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = manager.Get(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrNotStarted)
}

type fakeLocker struct {
	mu       sync.Mutex
	locked   int
	unlocked int
	ttl      time.Duration
	failLock error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.failLock != nil {
		return nil, f.failLock
	}
	f.mu.Lock()
	f.locked++
	f.ttl = ttl
	f.mu.Unlock()
	return func(ctx context.Context) error {
		f.mu.Lock()
		f.unlocked++
		f.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &fakeLocker{}
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	_, _, err := manager.Start(ctx, "s", "root")
	require.NoError(t, err)
	_, err = manager.End(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, 2, locker.locked)
	assert.Equal(t, 2, locker.unlocked)
	assert.Equal(t, 5*time.Second, locker.ttl)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	boom := errors.New("redis down")
	manager := session.NewManager(memory.NewStore(), session.WithLocker(&fakeLocker{failLock: boom}))

	called := false
	err := manager.WithLock(context.Background(), "s", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
