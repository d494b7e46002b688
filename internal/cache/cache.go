// Package cache guarda leituras de listagem em Redis, invalidadas por
// contadores de versão por coleção.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinicdesk/config"
	"clinicdesk/internal/domain/shared"
	"clinicdesk/internal/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "clinic"

type Service struct {
	store Store
	ttl   time.Duration

	mu           sync.RWMutex
	healthy      bool
	failureCount int
	lastCheck    time.Time

	maxFailures   int
	checkInterval time.Duration
}

var _ shared.Cache = (*Service)(nil)

// NewService conecta no Redis configurado. Sem conexão o serviço começa
// degradado e as leituras vão direto ao banco até o Redis voltar.
func NewService(cfg config.RedisConfig) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	svc := NewWithStore(NewRedisStore(client), cfg.TTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("address", cfg.Address).Msg("Redis indisponível; cache em modo degradado")
		svc.healthy = false
		return svc
	}

	logger.Info().Str("address", cfg.Address).Msg("Redis conectado")
	return svc
}

func NewWithStore(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		store:         store,
		ttl:           ttl,
		healthy:       true,
		lastCheck:     time.Now(),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}
}

// Get resolve a chave versionada das coleções e tenta lê-la. A chave
// devolvida deve ser repassada a Set: uma invalidação ocorrida durante a
// carga muda a versão e o valor gravado fica inalcançável.
func (s *Service) Get(ctx context.Context, collections []string, key string, dest interface{}) (string, bool) {
	if !s.available(ctx) {
		return "", false
	}

	fullKey, err := s.key(ctx, collections, key)
	if err != nil {
		s.recordFailure(err)
		return "", false
	}

	raw, err := s.store.Get(ctx, fullKey)
	if err != nil {
		if err != ErrMiss {
			s.recordFailure(err)
			return "", false
		}
		return fullKey, false
	}
	s.recordSuccess()

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Warn().Err(err).Str("key", fullKey).Msg("Entrada de cache inválida ignorada")
		return fullKey, false
	}
	return fullKey, true
}

// Set grava value na chave resolvida por Get; chave vazia não grava nada.
func (s *Service) Set(ctx context.Context, resolvedKey string, value interface{}) {
	if resolvedKey == "" || !s.available(ctx) {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", resolvedKey).Msg("Valor não serializável para o cache")
		return
	}

	if err := s.store.Set(ctx, resolvedKey, string(data), s.ttl); err != nil {
		s.recordFailure(err)
		return
	}
	s.recordSuccess()
}

// Invalidate incrementa a versão de cada coleção; chaves antigas deixam de
// ser lidas e expiram pelo TTL.
func (s *Service) Invalidate(ctx context.Context, collections ...string) {
	if s == nil || s.store == nil {
		return
	}
	for _, c := range collections {
		if err := s.store.Incr(ctx, versionKey(c)); err != nil {
			s.recordFailure(err)
			logger.Warn().Err(err).Str("collection", c).Msg("Falha ao invalidar coleção no cache")
		}
	}
}

func (s *Service) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

func (s *Service) IsHealthy() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}

// key monta clinic:<coleções>@<versões>:<chave>.
func (s *Service) key(ctx context.Context, collections []string, key string) (string, error) {
	versions := make([]string, len(collections))
	if len(collections) > 0 {
		keys := make([]string, len(collections))
		for i, c := range collections {
			keys[i] = versionKey(c)
		}
		values, err := s.store.MGet(ctx, keys...)
		if err != nil {
			return "", err
		}
		for i := range collections {
			versions[i] = "0"
			if i < len(values) && values[i] != nil {
				versions[i] = fmt.Sprint(values[i])
			}
		}
	}
	return fmt.Sprintf("%s:%s@%s:%s", keyPrefix, strings.Join(collections, ","), strings.Join(versions, "."), key), nil
}

func versionKey(collection string) string {
	return keyPrefix + ":version:" + collection
}

func (s *Service) available(ctx context.Context) bool {
	if s == nil || s.store == nil {
		return false
	}
	s.checkHealth(ctx)
	return s.IsHealthy()
}

func (s *Service) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failureCount++
	if s.failureCount >= s.maxFailures && s.healthy {
		logger.Warn().Err(err).Int("failures", s.failureCount).Msg("Cache desativado temporariamente")
		s.healthy = false
		s.lastCheck = time.Now()
	}
}

func (s *Service) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.healthy {
		logger.Info().Msg("Cache reativado")
	}
	s.healthy = true
	s.failureCount = 0
	s.lastCheck = time.Now()
}

func (s *Service) checkHealth(ctx context.Context) {
	s.mu.RLock()
	shouldCheck := !s.healthy && time.Since(s.lastCheck) >= s.checkInterval
	s.mu.RUnlock()

	if !shouldCheck {
		return
	}

	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.store.Ping(pingCtx); err == nil {
		s.recordSuccess()
	}
}
