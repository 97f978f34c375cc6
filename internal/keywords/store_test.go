package keywords

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok := store.Get(ctx, "absent"); ok {
		t.Fatalf("expected miss for absent key")
	}

	store.Set(ctx, "key", []string{"Go", "Kubernetes"})

	got, ok := store.Get(ctx, "key")
	if !ok {
		t.Fatalf("expected hit")
	}

	want := []string{"Go", "Kubernetes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Mutating the returned slice must not affect the stored value.
	got[0] = "mutated"

	fresh, _ := store.Get(ctx, "key")
	if !reflect.DeepEqual(fresh, want) {
		t.Fatalf("stored value mutated: %v", fresh)
	}

	store.Set(ctx, "key", []string{"Rust"})

	overwritten, _ := store.Get(ctx, "key")
	if !reflect.DeepEqual(overwritten, []string{"Rust"}) {
		t.Fatalf("expected overwrite, got %v", overwritten)
	}
}

func TestRedisStoreDegradesWhenUnavailable(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(RedisConfig{Addr: "127.0.0.1:0"}, zap.NewNop())
	ctx := context.Background()

	store.Set(ctx, "key", []string{"Go"})

	if _, ok := store.Get(ctx, "key"); ok {
		t.Fatalf("expected miss from degraded store")
	}

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
