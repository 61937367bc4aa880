package session

import (
	"context"
	"testing"
	"time"

	"github.com/threadmind/threadmind/internal/kv"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	val, ok := f.values[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	store := New(newFakeKV(), time.Hour)
	ctx := context.Background()

	sid, err := store.Create(ctx, 12)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	id, ok, err := store.UserID(ctx, sid)
	if err != nil {
		t.Fatalf("UserID() error: %v", err)
	}
	if !ok || id != 12 {
		t.Errorf("UserID() = (%d, %v), want (12, true)", id, ok)
	}

	if err := store.Destroy(ctx, sid); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}

	if _, ok, _ := store.UserID(ctx, sid); ok {
		t.Error("Expected session to be gone after Destroy()")
	}
}

func TestUserIDUnknownSession(t *testing.T) {
	store := New(newFakeKV(), time.Hour)

	tests := []struct {
		name string
		sid  string
	}{
		{name: "empty session id", sid: ""},
		{name: "never created", sid: "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok, err := store.UserID(context.Background(), tt.sid)
			if err != nil {
				t.Fatalf("UserID() error: %v", err)
			}
			if ok || id != 0 {
				t.Errorf("UserID() = (%d, %v), want (0, false)", id, ok)
			}
		})
	}
}

func TestDestroyUnknownSession(t *testing.T) {
	store := New(newFakeKV(), time.Hour)
	if err := store.Destroy(context.Background(), "missing"); err != nil {
		t.Errorf("Destroy() on unknown session should not error, got: %v", err)
	}
}
