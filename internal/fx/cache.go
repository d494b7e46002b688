package fx

import (
	"context"

	"clinicdesk/config"
	"clinicdesk/internal/cache"
	"clinicdesk/internal/domain/shared"
	"clinicdesk/internal/logger"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		newCache,
	),
)

// newCache devolve nil quando o Redis está desligado; os services tratam
// cache nil como leitura direta do banco.
func newCache(lc fx.Lifecycle, cfg *config.Config) shared.Cache {
	if !cfg.Redis.Enabled {
		logger.Info().Msg("Cache Redis desabilitado")
		return nil
	}

	svc := cache.NewService(cfg.Redis)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return svc.Close()
		},
	})
	return svc
}
