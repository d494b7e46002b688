package shared

import (
	"context"
)

const (
	CollectionInvestments   = "investments"
	CollectionContributions = "contributions"
	CollectionInvestors     = "investors"
	CollectionMedicines     = "medicines"
	CollectionServices      = "services"
	CollectionBills         = "bills"
	CollectionBank          = "bank_transactions"
	CollectionPayroll       = "payroll"
)

// Cache guarda leituras agrupadas por coleção; Invalidate descarta tudo
// o que foi derivado das coleções informadas. Get devolve a chave resolvida
// no momento da leitura e Set grava somente nela.
type Cache interface {
	Get(ctx context.Context, collections []string, key string, dest interface{}) (string, bool)
	Set(ctx context.Context, resolvedKey string, value interface{})
	Invalidate(ctx context.Context, collections ...string)
}

// Remember devolve o valor em cache ou executa load e guarda o resultado.
func Remember[T any](ctx context.Context, cache Cache, collections []string, key string, load func() (T, error)) (T, error) {
	if cache == nil {
		return load()
	}

	var cached T
	resolved, hit := cache.Get(ctx, collections, key, &cached)
	if hit {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	cache.Set(ctx, resolved, value)
	return value, nil
}

func Invalidate(ctx context.Context, cache Cache, collections ...string) {
	if cache == nil {
		return
	}
	cache.Invalidate(ctx, collections...)
}
