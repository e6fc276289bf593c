package cache

import (
	"context"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/usecase"
)

var _ usecase.ProductCache = (*NoopProductCache)(nil)

// NoopProductCache implementación nula: todo miss, nunca falla. Se usa
// cuando Redis no está configurado.
type NoopProductCache struct{}

// NewNoopProductCache construye la caché nula.
func NewNoopProductCache() *NoopProductCache {
	return &NoopProductCache{}
}

func (c *NoopProductCache) GetList(ctx context.Context, key string) (*dto.ProductListResponse, bool, error) {
	return nil, false, nil
}

func (c *NoopProductCache) SetList(ctx context.Context, key string, value *dto.ProductListResponse) error {
	return nil
}

func (c *NoopProductCache) Invalidate(ctx context.Context) {}
