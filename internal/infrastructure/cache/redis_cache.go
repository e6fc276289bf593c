package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/usecase"
)

var _ usecase.ProductCache = (*RedisProductCache)(nil)

const versionKey = "products:ver"

// RedisProductCache caché de búsquedas del catálogo sobre Redis.
// La invalidación es por versión: cada mutación incrementa products:ver y
// las claves viejas quedan huérfanas hasta que expira su TTL.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache construye la caché con su cliente Redis.
func NewRedisProductCache(addr, password string, db int, ttl time.Duration) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisProductCache{client: client, ttl: ttl}
}

// Ping verifica la conexión con Redis.
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente Redis.
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func (c *RedisProductCache) versionedKey(ctx context.Context, key string) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Result()
	if err == redis.Nil {
		ver = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:v%s:%s", ver, key), nil
}

// GetList busca una página de resultados en caché. Miss devuelve (nil, false, nil).
func (c *RedisProductCache) GetList(ctx context.Context, key string) (*dto.ProductListResponse, bool, error) {
	vkey, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	val, err := c.client.Get(ctx, vkey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp dto.ProductListResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

// SetList guarda una página de resultados con el TTL configurado.
func (c *RedisProductCache) SetList(ctx context.Context, key string, value *dto.ProductListResponse) error {
	if value == nil {
		return nil
	}
	vkey, err := c.versionedKey(ctx, key)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, vkey, payload, c.ttl).Err()
}

// Invalidate incrementa la versión del espacio de claves. Best-effort: un
// fallo de Redis no debe tumbar la mutación que lo disparó.
func (c *RedisProductCache) Invalidate(ctx context.Context) {
	_ = c.client.Incr(ctx, versionKey).Err()
}
