package cache_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"clinicdesk/internal/cache"
	"clinicdesk/internal/domain/shared"
)

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

var errDown = errors.New("connection refused")

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", errDown
	}
	v, ok := m.values[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memoryStore) MGet(ctx context.Context, keys ...string) ([]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errDown
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := m.values[k]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (m *memoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errDown
	}
	m.values[key] = value
	return nil
}

func (m *memoryStore) Incr(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errDown
	}
	n, _ := strconv.Atoi(m.values[key])
	m.values[key] = strconv.Itoa(n + 1)
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	if m.failing {
		return errDown
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	return out
}

type payload struct {
	Total int    `json:"total"`
	Name  string `json:"name"`
}

func put(ctx context.Context, svc *cache.Service, cols []string, key string, value payload) {
	var discard payload
	resolved, _ := svc.Get(ctx, cols, key, &discard)
	svc.Set(ctx, resolved, value)
}

func TestSetThenGet(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := cache.NewWithStore(store, time.Minute)
	ctx := context.Background()
	cols := []string{"investments", "contributions"}

	put(ctx, svc, cols, "ledger:all", payload{Total: 3, Name: "x"})

	var got payload
	if _, hit := svc.Get(ctx, cols, "ledger:all", &got); !hit {
		t.Fatalf("expected cache hit")
	}
	if got.Total != 3 || got.Name != "x" {
		t.Fatalf("unexpected payload %+v", got)
	}

	found := false
	for _, k := range store.keys() {
		if k == "clinic:investments,contributions@0.0:ledger:all" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected versioned key, got %v", store.keys())
	}
}

func TestInvalidateOnlyAffectsItsCollections(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := cache.NewWithStore(store, time.Minute)
	ctx := context.Background()

	put(ctx, svc, []string{"investments"}, "list", payload{Total: 1})
	put(ctx, svc, []string{"medicines"}, "list", payload{Total: 2})

	svc.Invalidate(ctx, "investments")

	var got payload
	if _, hit := svc.Get(ctx, []string{"investments"}, "list", &got); hit {
		t.Fatalf("expected miss after invalidation")
	}
	if _, hit := svc.Get(ctx, []string{"medicines"}, "list", &got); !hit || got.Total != 2 {
		t.Fatalf("expected untouched collection to hit, got %+v", got)
	}
}

func TestNilServiceIsPassThrough(t *testing.T) {
	t.Parallel()

	var svc *cache.Service
	ctx := context.Background()

	svc.Set(ctx, "clinic:bills@0:k", payload{Total: 1})
	svc.Invalidate(ctx, "bills")

	var got payload
	if _, hit := svc.Get(ctx, []string{"bills"}, "k", &got); hit {
		t.Fatalf("nil service must never hit")
	}
	if svc.IsHealthy() {
		t.Fatalf("nil service must not report healthy")
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestFailuresDegradeToPassThrough(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := cache.NewWithStore(store, time.Minute)
	ctx := context.Background()

	store.failing = true
	for i := 0; i < 3; i++ {
		var got payload
		if _, hit := svc.Get(ctx, []string{"bank_transactions"}, "balance", &got); hit {
			t.Fatalf("expected miss while failing")
		}
	}
	if svc.IsHealthy() {
		t.Fatalf("expected service to be marked unhealthy")
	}

	store.failing = false
	svc.Set(ctx, "clinic:bank_transactions@0:balance", payload{Total: 9})
	for _, k := range store.keys() {
		if strings.HasPrefix(k, "clinic:bank_transactions@") {
			t.Fatalf("unhealthy service must not write, found %s", k)
		}
	}
}

func TestRememberDiscardsValueLoadedAcrossInvalidation(t *testing.T) {
	t.Parallel()

	svc := cache.NewWithStore(newMemoryStore(), time.Minute)
	ctx := context.Background()
	cols := []string{"investments"}

	got, err := shared.Remember(ctx, svc, cols, "list", func() (string, error) {
		svc.Invalidate(ctx, "investments")
		return "old", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "old" {
		t.Fatalf("expected loader result, got %q", got)
	}

	got, err = shared.Remember(ctx, svc, cols, "list", func() (string, error) {
		return "new", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "new" {
		t.Fatalf("value loaded before invalidation was served: %q", got)
	}
}

func TestSetWithoutResolvedKeyIsNoop(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := cache.NewWithStore(store, time.Minute)

	svc.Set(context.Background(), "", payload{Total: 1})
	if keys := store.keys(); len(keys) != 0 {
		t.Fatalf("expected no writes, got %v", keys)
	}
}
