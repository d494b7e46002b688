package shared_test

import (
	"context"
	"errors"
	"testing"

	"clinicdesk/internal/domain/shared"
)

type memoryCache struct {
	data        map[string]int
	invalidated []string
}

func (m *memoryCache) Get(_ context.Context, _ []string, key string, dest interface{}) (string, bool) {
	v, ok := m.data[key]
	if !ok {
		return key, false
	}
	*(dest.(*int)) = v
	return key, true
}

func (m *memoryCache) Set(_ context.Context, resolvedKey string, value interface{}) {
	m.data[resolvedKey] = value.(int)
}

func (m *memoryCache) Invalidate(_ context.Context, collections ...string) {
	m.invalidated = append(m.invalidated, collections...)
	m.data = map[string]int{}
}

func TestRememberUsesCache(t *testing.T) {
	t.Parallel()

	cache := &memoryCache{data: map[string]int{}}
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 2; i++ {
		got, err := shared.Remember(context.Background(), cache, []string{shared.CollectionInvestments}, "k", load)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Fatalf("expected 42, got %d", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected loader to run once, ran %d times", calls)
	}

	shared.Invalidate(context.Background(), cache, shared.CollectionInvestments)
	if _, err := shared.Remember(context.Background(), cache, nil, "k", load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after invalidation")
	}
}

func TestRememberWithoutCache(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	_, err := shared.Remember(context.Background(), nil, nil, "k", func() (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	shared.Invalidate(context.Background(), nil, shared.CollectionBills)
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  antibiótico  oral ": "Antibiótico Oral",
		"x":                    "X",
		"":                     "",
		"ÉQUIPE médica":        "Équipe Médica",
	}
	for in, want := range tests {
		if got := shared.NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	if got := shared.CacheKey("", " "); got != "all" {
		t.Fatalf("expected all, got %q", got)
	}
	if got := shared.CacheKey("a", "", "b"); got != "a|b" {
		t.Fatalf("expected a|b, got %q", got)
	}
}
