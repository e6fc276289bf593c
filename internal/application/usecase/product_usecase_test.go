package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/application/usecase"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
	"github.com/jmorales/inventario-pos/pkg/logger"
	"github.com/jmorales/inventario-pos/pkg/textutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
		if p.Barcode != "" && existing.Barcode == p.Barcode {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *memProductRepo) SetStock(productID string, quantity int64) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrInsufficientStock
	}
	p.CurrentStock = quantity
	return nil
}

// Search replica la semántica de la consulta real: las columnas también se
// pliegan (minúsculas, sin tildes) antes de comparar contra el término ya
// normalizado.
func (r *memProductRepo) Search(term string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if term != "" {
			match := strings.Contains(textutil.NormalizeTerm(p.Name), term) ||
				strings.Contains(textutil.NormalizeTerm(p.SKU), term) ||
				strings.Contains(textutil.NormalizeTerm(p.Barcode), term)
			if !match {
				continue
			}
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.BelowMinStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error { delete(r.products, id); return nil }
func (r *memProductRepo) Count() (int, error)    { return len(r.products), nil }

type memMovementRepo struct {
	movements []*entity.Movement
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }

func (r *memMovementRepo) List(repository.MovementFilter) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListWithProduct(time.Time, time.Time) ([]*repository.MovementWithProduct, error) {
	return nil, nil
}

func (r *memMovementRepo) ListByTransactionID(string) ([]*repository.MovementWithProduct, error) {
	return nil, nil
}

func (r *memMovementRepo) ExistsByTransactionID(string) (bool, error) { return false, nil }
func (r *memMovementRepo) SumByProduct(string) (int64, error)         { return 0, nil }

type memOverrideRepo struct {
	overrides []*entity.StockOverride
}

func (r *memOverrideRepo) Create(o *entity.StockOverride) error {
	cp := *o
	r.overrides = append(r.overrides, &cp)
	return nil
}

func (r *memOverrideRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockOverride, error) {
	var out []*entity.StockOverride
	for _, o := range r.overrides {
		if o.ProductID == productID {
			cp := *o
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memTxRunner struct {
	movements *memMovementRepo
	products  *memProductRepo
	overrides *memOverrideRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	overrideRepo repository.StockOverrideRepository,
) error) error {
	return fn(r.movements, r.products, r.overrides)
}

// countingCache registra invalidaciones; nunca acierta.
type countingCache struct {
	invalidations int
	sets          int
}

func (c *countingCache) GetList(context.Context, string) (*dto.ProductListResponse, bool, error) {
	return nil, false, nil
}

func (c *countingCache) SetList(context.Context, string, *dto.ProductListResponse) error {
	c.sets++
	return nil
}

func (c *countingCache) Invalidate(context.Context) { c.invalidations++ }

type productFixture struct {
	repo      *memProductRepo
	movements *memMovementRepo
	overrides *memOverrideRepo
	cache     *countingCache
	uc        *usecase.ProductUseCase
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	repo := newMemProductRepo()
	movRepo := &memMovementRepo{}
	overrides := &memOverrideRepo{}
	txRunner := &memTxRunner{movements: movRepo, products: repo, overrides: overrides}
	cache := &countingCache{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	movementUC := inventory.NewRegisterMovementUseCase(txRunner, repo, movRepo)
	return &productFixture{
		repo:      repo,
		movements: movRepo,
		overrides: overrides,
		cache:     cache,
		uc:        usecase.NewProductUseCase(repo, movementUC, txRunner, overrides, cache, log),
	}
}

func precio(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

// El SKU se guarda en forma canónica: sin espacios, sin tildes, mayúsculas.
func TestCreate_NormalizaSKU(t *testing.T) {
	fx := newProductFixture(t)

	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café molido",
		SKU:  "  café-500 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "CAFE-500", resp.SKU)
	assert.Equal(t, "unidad", resp.Unit, "unidad por defecto")
	assert.Zero(t, resp.CurrentStock)
}

// SKUs que difieren solo en tildes o mayúsculas chocan.
func TestCreate_SKUDuplicadoNormalizado(t *testing.T) {
	fx := newProductFixture(t)

	_, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café",
		SKU:  "CAFE-500",
	})
	require.NoError(t, err)

	_, err = fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Otro café",
		SKU:  "café-500",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_BarcodeDuplicado(t *testing.T) {
	fx := newProductFixture(t)

	_, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500", Barcode: "7701234567890",
	})
	require.NoError(t, err)

	_, err = fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Azúcar", SKU: "AZUC-1K", Barcode: "7701234567890",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Stock inicial > 0 asienta la primera entrada en el libro, no escribe el
// stock directamente.
func TestCreate_StockInicialRegistraPrimeraEntrada(t *testing.T) {
	fx := newProductFixture(t)

	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name:         "Café",
		SKU:          "CAFE-500",
		Price:        precio("12.50"),
		InitialStock: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), resp.CurrentStock)

	require.Len(t, fx.movements.movements, 1)
	primera := fx.movements.movements[0]
	assert.Equal(t, entity.MovementEntrada, primera.Type)
	assert.Equal(t, int64(40), primera.Quantity)
	assert.Equal(t, "Primera entrada - Producto nuevo", primera.Reason)
	assert.Equal(t, "user-1", primera.UserID)
}

func TestCreate_EntradasInvalidas(t *testing.T) {
	fx := newProductFixture(t)
	casos := []dto.CreateProductRequest{
		{SKU: "X-1"},                         // sin nombre
		{Name: "X"},                          // sin SKU
		{Name: "X", SKU: "X-1", MinStock: -1},
		{Name: "X", SKU: "X-1", InitialStock: -5},
		{Name: "X", SKU: "X-1", Price: precio("-1")},
	}
	for _, in := range casos {
		_, err := fx.uc.Create(context.Background(), "user-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Update
// ──────────────────────────────────────────────────────────────────────────────

// Update es parcial: solo toca los campos presentes y nunca CurrentStock.
func TestUpdate_Parcial(t *testing.T) {
	fx := newProductFixture(t)
	created, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500", InitialStock: 10,
	})
	require.NoError(t, err)

	nuevoNombre := "Café premium"
	resp, err := fx.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Name:  &nuevoNombre,
		Price: precio("15.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Café premium", resp.Name)
	assert.Equal(t, "CAFE-500", resp.SKU, "el SKU no cambia")
	assert.Equal(t, int64(10), resp.CurrentStock, "el stock no se toca")
}

func TestUpdate_ProductoInexistente(t *testing.T) {
	fx := newProductFixture(t)
	resp, err := fx.uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests OverrideStock
// ──────────────────────────────────────────────────────────────────────────────

// El override fija el stock absoluto, deja fila de auditoría con el valor
// previo e invalida la caché.
func TestOverrideStock_DejaAuditoria(t *testing.T) {
	fx := newProductFixture(t)
	created, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500", InitialStock: 40,
	})
	require.NoError(t, err)
	fx.cache.invalidations = 0

	resp, err := fx.uc.OverrideStock(context.Background(), created.ID, "admin-1", dto.OverrideStockRequest{
		NewQuantity: 33,
		Reason:      "Conteo físico de fin de mes",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(33), resp.CurrentStock)

	require.Len(t, fx.overrides.overrides, 1)
	audit := fx.overrides.overrides[0]
	assert.Equal(t, created.ID, audit.ProductID)
	assert.Equal(t, int64(40), audit.PreviousStock)
	assert.Equal(t, int64(33), audit.NewStock)
	assert.Equal(t, "admin-1", audit.UserID)
	assert.Equal(t, "Conteo físico de fin de mes", audit.Reason)

	assert.Empty(t, fx.movements.movements[1:], "el override no asienta movimientos")
	assert.Equal(t, 1, fx.cache.invalidations)
}

func TestOverrideStock_NegativoRechazado(t *testing.T) {
	fx := newProductFixture(t)
	_, err := fx.uc.OverrideStock(context.Background(), "p1", "admin-1", dto.OverrideStockRequest{
		NewQuantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOverrideStock_ProductoInexistente(t *testing.T) {
	fx := newProductFixture(t)
	_, err := fx.uc.OverrideStock(context.Background(), "no-existe", "admin-1", dto.OverrideStockRequest{
		NewQuantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La pantalla de admin consulta la auditoría de overrides por producto.
func TestListOverrides_DevuelveAuditoria(t *testing.T) {
	fx := newProductFixture(t)
	created, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500", InitialStock: 40,
	})
	require.NoError(t, err)

	_, err = fx.uc.OverrideStock(context.Background(), created.ID, "admin-1", dto.OverrideStockRequest{
		NewQuantity: 33, Reason: "Conteo físico",
	})
	require.NoError(t, err)
	_, err = fx.uc.OverrideStock(context.Background(), created.ID, "admin-1", dto.OverrideStockRequest{
		NewQuantity: 30, Reason: "Merma detectada",
	})
	require.NoError(t, err)

	list, err := fx.uc.ListOverrides(created.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(40), list[0].PreviousStock)
	assert.Equal(t, int64(33), list[0].NewStock)
	assert.Equal(t, int64(33), list[1].PreviousStock)
	assert.Equal(t, int64(30), list[1].NewStock)
	assert.Equal(t, "admin-1", list[0].UserID)
}

func TestListOverrides_ProductoInexistente(t *testing.T) {
	fx := newProductFixture(t)
	_, err := fx.uc.ListOverrides("no-existe", 50, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Search / ListLowStock / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_NormalizaLimites(t *testing.T) {
	fx := newProductFixture(t)

	resp, err := fx.uc.Search(context.Background(), "", 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Page.Limit, "límite por defecto")
	assert.Equal(t, 0, resp.Page.Offset)

	resp, err = fx.uc.Search(context.Background(), "", 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Page.Limit, "tope de página")
	assert.Equal(t, 2, fx.cache.sets, "cada búsqueda puebla la caché")
}

// La búsqueda pliega tildes en ambos lados: el término del usuario y las
// columnas del catálogo. "codigo" debe encontrar "Código" y viceversa.
func TestSearch_TildesEnAmbosLados(t *testing.T) {
	fx := newProductFixture(t)
	_, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Código de barras láser", SKU: "LASER-01",
	})
	require.NoError(t, err)
	_, err = fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Azúcar refinada", SKU: "AZUC-1K",
	})
	require.NoError(t, err)

	// Término sin tilde encuentra la columna con tilde.
	resp, err := fx.uc.Search(context.Background(), "codigo", 20, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "LASER-01", resp.Items[0].SKU)

	// Término con tilde y mayúsculas también.
	resp, err = fx.uc.Search(context.Background(), "CÓDIGO", 20, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "LASER-01", resp.Items[0].SKU)

	resp, err = fx.uc.Search(context.Background(), "azucar", 20, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "AZUC-1K", resp.Items[0].SKU)
}

func TestListLowStock(t *testing.T) {
	fx := newProductFixture(t)
	_, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500", MinStock: 10, InitialStock: 3,
	})
	require.NoError(t, err)
	_, err = fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Azúcar", SKU: "AZUC-1K", MinStock: 10, InitialStock: 50,
	})
	require.NoError(t, err)

	low, err := fx.uc.ListLowStock()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "CAFE-500", low[0].SKU)
	assert.True(t, low[0].LowStock)
}

func TestDelete_InvalidaCache(t *testing.T) {
	fx := newProductFixture(t)
	created, err := fx.uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Name: "Café", SKU: "CAFE-500",
	})
	require.NoError(t, err)
	fx.cache.invalidations = 0

	require.NoError(t, fx.uc.Delete(context.Background(), created.ID))
	got, err := fx.uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, fx.cache.invalidations)
}
