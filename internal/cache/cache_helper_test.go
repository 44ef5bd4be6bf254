package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:")
}

func TestCacheHelper_GetSet(t *testing.T) {
	ctx := context.Background()
	helper := newTestHelper(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "key", payload{Name: "go", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "key", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "go" || got.Count != 3 {
		t.Errorf("Round trip mismatch: %+v", got)
	}

	if err := helper.Get(ctx, "missing", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_SetNX(t *testing.T) {
	ctx := context.Background()
	helper := newTestHelper(t)

	won, err := helper.SetNX(ctx, "lock", "a", time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if !won {
		t.Error("First SetNX should win the reservation")
	}

	won, err = helper.SetNX(ctx, "lock", "b", time.Minute)
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if won {
		t.Error("Second SetNX must not win an existing reservation")
	}
}

func TestCacheHelper_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	helper := newTestHelper(t)

	if err := helper.SetString(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	exists, err := helper.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Key should exist after SetString")
	}

	if err := helper.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err = helper.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Key should be gone after Delete")
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "test:")

	if err := helper.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set without a client should degrade silently, got %v", err)
	}

	var dest string
	if err := helper.Get(ctx, "key", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}
