package lock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "availability:inflight"

// Key собирает ключ блокировки операции: availability:inflight:{guideId}:{op}:{target}
func Key(guideID, operation, target string) string {
	if target == "" {
		target = "-"
	}
	return strings.Join([]string{keyPrefix, guideID, operation, target}, ":")
}

// ReleaseFunc снимает блокировку. Повторный вызов безопасен
type ReleaseFunc func()

// releaseScript удаляет ключ только если он всё ещё принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard защита от повторной отправки одной и той же мутации (SET NX PX)
type RedisGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    Logger
}

// NewRedisGuard создает guard. ttl должен покрывать таймаут мутации
func NewRedisGuard(client redis.UniversalClient, ttl time.Duration, log Logger) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, log: log}
}

// Acquire захватывает ключ. Возвращает ErrInFlight, если ключ уже занят
func (g *RedisGuard) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: SETNX %s: %v", ErrBackend, key, err)
	}
	if !ok {
		return nil, ErrInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Снимаем блокировку даже если исходный запрос уже отменён
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, g.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
				g.log.Warn("RedisGuard: failed to release %s: %v", key, err)
			}
		})
	}, nil
}

// LocalGuard in-process guard. Используется, когда Redis выключен
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalGuard создает guard в памяти процесса
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

// Acquire захватывает ключ. Возвращает ErrInFlight, если ключ уже занят
func (g *LocalGuard) Acquire(_ context.Context, key string) (ReleaseFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, ErrInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}
