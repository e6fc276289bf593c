package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
	"github.com/jmorales/inventario-pos/pkg/logger"
	"github.com/jmorales/inventario-pos/pkg/textutil"
)

// ProductCache caché opcional de búsquedas del catálogo. La clave agrupa
// término y paginación; cualquier mutación de catálogo o stock invalida
// todo el espacio de claves.
type ProductCache interface {
	GetList(ctx context.Context, key string) (*dto.ProductListResponse, bool, error)
	SetList(ctx context.Context, key string, value *dto.ProductListResponse) error
	Invalidate(ctx context.Context)
}

// ProductUseCase casos de uso del catálogo. CurrentStock nunca se toca por
// la ruta de edición normal: solo movimientos o el override explícito.
type ProductUseCase struct {
	repo         repository.ProductRepository
	movements    *inventory.RegisterMovementUseCase
	txRunner     inventory.TxRunner
	overrideRepo repository.StockOverrideRepository
	cache        ProductCache
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements *inventory.RegisterMovementUseCase,
	txRunner inventory.TxRunner,
	overrideRepo repository.StockOverrideRepository,
	cache ProductCache,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		movements:    movements,
		txRunner:     txRunner,
		overrideRepo: overrideRepo,
		cache:        cache,
		log:          log,
	}
}

// Create crea un producto con stock 0. Si InitialStock > 0 registra la
// primera entrada en el libro inmediatamente después (conveniencia de la
// pantalla de entradas: alta de producto + primera entrada en un paso).
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock < 0 || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	sku := textutil.NormalizeSKU(in.SKU)
	if existing, _ := uc.repo.GetBySKU(sku); existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Barcode != "" {
		if existing, _ := uc.repo.GetByBarcode(in.Barcode); existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	unit := in.Unit
	if unit == "" {
		unit = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		SKU:          sku,
		Barcode:      in.Barcode,
		Category:     in.Category,
		Unit:         unit,
		CurrentStock: 0,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
		Price:        in.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock > 0 {
		mov, err := uc.movements.Register(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Type:      entity.MovementEntrada,
			Quantity:  in.InitialStock,
			UserID:    userID,
			Reason:    "Primera entrada - Producto nuevo",
		})
		if err != nil {
			return nil, err
		}
		product.CurrentStock = mov.Quantity
	}

	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetByBarcode resuelve un escaneo de código de barras a producto.
func (uc *ProductUseCase) GetByBarcode(barcode string) (*dto.ProductResponse, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza campos editables. No permite tocar CurrentStock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil && *in.Unit != "" {
		product.Unit = *in.Unit
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = in.MaxStock
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// OverrideStock fija CurrentStock en un valor absoluto, puenteando el
// libro de movimientos. Es la válvula de escape administrativa: rompe la
// invariante de suma a propósito, así que deja fila de auditoría y log en
// warn para que el evento sea rastreable.
func (uc *ProductUseCase) OverrideStock(ctx context.Context, id, userID string, in dto.OverrideStockRequest) (*dto.ProductResponse, error) {
	if in.NewQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	var previous int64
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
		overrideRepo repository.StockOverrideRepository,
	) error {
		product, err := productRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		previous = product.CurrentStock
		if err := productRepo.SetStock(product.ID, in.NewQuantity); err != nil {
			return err
		}
		if err := overrideRepo.Create(&entity.StockOverride{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			PreviousStock: previous,
			NewStock:      in.NewQuantity,
			UserID:        userID,
			Reason:        in.Reason,
			CreatedAt:     time.Now(),
		}); err != nil {
			return err
		}
		product.CurrentStock = in.NewQuantity
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Warn().
		Str("product_id", id).
		Str("user_id", userID).
		Int64("previous_stock", previous).
		Int64("new_stock", in.NewQuantity).
		Msg("override administrativo de stock (fuera del libro de movimientos)")

	uc.invalidate(ctx)
	return toProductResponse(updated), nil
}

// ListOverrides devuelve la auditoría de overrides de un producto, más
// recientes primero (pantalla de admin).
func (uc *ProductUseCase) ListOverrides(productID string, limit, offset int) ([]dto.StockOverrideResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.overrideRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockOverrideResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.StockOverrideResponse{
			ID:            o.ID,
			ProductID:     o.ProductID,
			PreviousStock: o.PreviousStock,
			NewStock:      o.NewStock,
			UserID:        o.UserID,
			Reason:        o.Reason,
			CreatedAt:     o.CreatedAt,
		})
	}
	return items, nil
}

// Search lista productos por término (vacío = todos), con caché.
func (uc *ProductUseCase) Search(ctx context.Context, term string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	normalized := textutil.NormalizeTerm(term)

	key := fmt.Sprintf("products:%s:%d:%d", normalized, limit, offset)
	if uc.cache != nil {
		if cached, ok, err := uc.cache.GetList(ctx, key); err == nil && ok {
			return cached, nil
		}
	}

	list, err := uc.repo.Search(normalized, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	resp := &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	if uc.cache != nil {
		_ = uc.cache.SetList(ctx, key, resp)
	}
	return resp, nil
}

// ListLowStock productos en o bajo su umbral de reposición.
func (uc *ProductUseCase) ListLowStock() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto (los movimientos caen en cascada en el esquema).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Invalidate implementa sales.CatalogInvalidator: las ventas cambian el
// stock y dejan viejas las listas cacheadas.
func (uc *ProductUseCase) Invalidate(ctx context.Context) {
	uc.invalidate(ctx)
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Category:     p.Category,
		Unit:         p.Unit,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		Price:        p.Price,
		LowStock:     p.BelowMinStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
