package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/anaradzetski/keyboard/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _, _ = mgr.Start(ctx, sid, "root")
		_ = mgr.WithLock(ctx, sid, func(ctx context.Context) error {
			return mgr.store.Set(ctx, sid, "root::A")
		})
		_, _ = mgr.End(ctx, sid)
	}

	mgr.mu.Lock()
	lockCount := len(mgr.locks)
	mgr.mu.Unlock()

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after End", lockCount)
	}
}
