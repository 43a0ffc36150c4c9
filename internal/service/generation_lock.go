package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrGenerationInProgress indica que ya hay una corrida activa para el mismo nino.
var ErrGenerationInProgress = errors.New("recommendation generation already in progress")

// GenerationLock serializa las corridas de generacion por nino.
// release es idempotente y nunca es nil cuando err es nil.
type GenerationLock interface {
	Acquire(ctx context.Context, childID string) (release func(), err error)
}

const redisReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisGenerationLock struct {
	client redisLocker
	ttl    time.Duration
	prefix string
}

// NewRedisGenerationLock usa SET NX PX con un token aleatorio; solo el duenio del token libera.
// El TTL acota cuanto sobrevive el lock si el proceso muere a mitad de corrida.
func NewRedisGenerationLock(client *redis.Client, ttl time.Duration) GenerationLock {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisGenerationLock{
		client: client,
		ttl:    ttl,
		prefix: "compass:lock:generate:",
	}
}

func (l *redisGenerationLock) Acquire(ctx context.Context, childID string) (func(), error) {
	key := l.prefix + strings.TrimSpace(childID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Se libera con un contexto propio: el del pedido puede estar cancelado.
			releaseCtx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
			defer cancel()
			_ = l.client.Eval(releaseCtx, redisReleaseScript, []string{key}, token).Err()
		})
	}, nil
}

type memoryGenerationLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryGenerationLock sirve para una sola replica o cuando Redis no esta configurado.
func NewMemoryGenerationLock() GenerationLock {
	return &memoryGenerationLock{held: make(map[string]struct{})}
}

func (l *memoryGenerationLock) Acquire(_ context.Context, childID string) (func(), error) {
	key := strings.TrimSpace(childID)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, ErrGenerationInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
