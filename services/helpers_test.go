package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alumni-chat/kvstore"
)

// stepClock advances one millisecond on every reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestStore(t *testing.T) (*ConversationStore, *kvstore.MemoryStore) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	return NewConversationStore(kv, nil, WithClock(newStepClock().Now)), kv
}

var errBackendDown = errors.New("backend down")

// brokenKV fails every operation after failAfter successful Sets.
type brokenKV struct {
	*kvstore.MemoryStore
	failGets  bool
	failAfter int
	sets      int
}

func (b *brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	if b.failGets {
		return "", false, errBackendDown
	}
	return b.MemoryStore.Get(ctx, key)
}

func (b *brokenKV) Set(ctx context.Context, key, value string) error {
	if b.sets >= b.failAfter {
		return errBackendDown
	}
	b.sets++
	return b.MemoryStore.Set(ctx, key, value)
}

func (b *brokenKV) Clear(ctx context.Context) error {
	return errBackendDown
}
