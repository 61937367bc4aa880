package client

import (
	"testing"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		args     map[string]any
		expected string
	}{
		{
			name:     "no args",
			op:       "auth_api.me",
			args:     nil,
			expected: "auth_api.me",
		},
		{
			name:     "single arg",
			op:       "forum_api.get_post",
			args:     map[string]any{"id": 7},
			expected: "forum_api.get_post::id=7",
		},
		{
			name:     "args sort by name",
			op:       "forum_api.get_feed",
			args:     map[string]any{"limit": 10, "cursor": "123"},
			expected: "forum_api.get_feed::cursor=123::limit=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cacheKey(tt.op, tt.args)
			if got != tt.expected {
				t.Errorf("cacheKey() = %q, want %q", got, tt.expected)
			}
			// Stable across calls
			if again := cacheKey(tt.op, tt.args); again != got {
				t.Errorf("cacheKey() unstable: %q then %q", got, again)
			}
		})
	}
}

func TestGenericResolve(t *testing.T) {
	cache := NewCache()

	if _, state := cache.Resolve("forum_api.get_post", map[string]any{"id": 1}); state != Miss {
		t.Errorf("Expected Miss on empty cache, got %v", state)
	}

	cache.Store("forum_api.get_post", map[string]any{"id": 1}, "answer")

	val, state := cache.Resolve("forum_api.get_post", map[string]any{"id": 1})
	if state != Hit || val != "answer" {
		t.Errorf("Resolve() = (%v, %v), want (answer, hit)", val, state)
	}

	// Different args miss independently
	if _, state := cache.Resolve("forum_api.get_post", map[string]any{"id": 2}); state != Miss {
		t.Errorf("Expected Miss for different args, got %v", state)
	}

	cache.Invalidate("forum_api.get_post", map[string]any{"id": 1})
	if _, state := cache.Resolve("forum_api.get_post", map[string]any{"id": 1}); state != Miss {
		t.Errorf("Expected Miss after Invalidate, got %v", state)
	}
}
