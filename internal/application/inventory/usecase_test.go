package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (solo lo que el motor de movimientos necesita)
// ──────────────────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[string]*entity.Product
}

func (r *stubProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) GetBySKU(string) (*entity.Product, error)     { return nil, nil }
func (r *stubProductRepo) GetByBarcode(string) (*entity.Product, error) { return nil, nil }
func (r *stubProductRepo) Update(p *entity.Product) error               { r.products[p.ID] = p; return nil }

func (r *stubProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *stubProductRepo) SetStock(productID string, quantity int64) error {
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

func (r *stubProductRepo) Search(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *stubProductRepo) ListLowStock() ([]*entity.Product, error)           { return nil, nil }
func (r *stubProductRepo) Delete(id string) error                             { delete(r.products, id); return nil }
func (r *stubProductRepo) Count() (int, error)                                { return len(r.products), nil }

type stubMovementRepo struct {
	movements []*entity.Movement
}

func (r *stubMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *stubMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubMovementRepo) ListWithProduct(time.Time, time.Time) ([]*repository.MovementWithProduct, error) {
	return nil, nil
}

func (r *stubMovementRepo) ListByTransactionID(string) ([]*repository.MovementWithProduct, error) {
	return nil, nil
}

func (r *stubMovementRepo) ExistsByTransactionID(string) (bool, error) { return false, nil }

func (r *stubMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

type stubOverrideRepo struct{}

func (stubOverrideRepo) Create(*entity.StockOverride) error { return nil }
func (stubOverrideRepo) ListByProduct(string, int, int) ([]*entity.StockOverride, error) {
	return nil, nil
}

// stubTxRunner ejecuta el callback con los stubs; restaura movimientos y
// stocks si fn falla, emulando el rollback.
type stubTxRunner struct {
	movements *stubMovementRepo
	products  *stubProductRepo
}

func (r *stubTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	overrideRepo repository.StockOverrideRepository,
) error) error {
	prevMovements := make([]*entity.Movement, len(r.movements.movements))
	copy(prevMovements, r.movements.movements)
	prevStocks := make(map[string]int64, len(r.products.products))
	for id, p := range r.products.products {
		prevStocks[id] = p.CurrentStock
	}

	if err := fn(r.movements, r.products, stubOverrideRepo{}); err != nil {
		r.movements.movements = prevMovements
		for id, stock := range prevStocks {
			if p, ok := r.products.products[id]; ok {
				p.CurrentStock = stock
			}
		}
		return err
	}
	return nil
}

func newFixture(stock int64) (*inventory.RegisterMovementUseCase, *stubProductRepo, *stubMovementRepo) {
	productRepo := &stubProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Café 500g", SKU: "CAFE-500", Unit: "unidad", CurrentStock: stock},
	}}
	movRepo := &stubMovementRepo{}
	uc := inventory.NewRegisterMovementUseCase(
		&stubTxRunner{movements: movRepo, products: productRepo},
		productRepo,
		movRepo,
	)
	return uc, productRepo, movRepo
}

func minutos(n int64) *int64 { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementInput_Validate(t *testing.T) {
	valida := func() inventory.MovementInput {
		return inventory.MovementInput{
			ProductID: "p1",
			Type:      entity.MovementEntrada,
			Quantity:  5,
			UserID:    "user-1",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*inventory.MovementInput)
		wantErr bool
	}{
		{"entrada mínima válida", func(in *inventory.MovementInput) {}, false},
		{"sin producto", func(in *inventory.MovementInput) { in.ProductID = "" }, true},
		{"sin usuario", func(in *inventory.MovementInput) { in.UserID = "" }, true},
		{"tipo desconocido", func(in *inventory.MovementInput) { in.Type = "ajuste" }, true},
		{"cantidad cero", func(in *inventory.MovementInput) { in.Quantity = 0 }, true},
		{"cantidad negativa", func(in *inventory.MovementInput) { in.Quantity = -3 }, true},
		{"fecha válida", func(in *inventory.MovementInput) { in.Fecha = "2026-08-15" }, false},
		{"fecha mal formada", func(in *inventory.MovementInput) { in.Fecha = "15/08/2026" }, true},
		{"hora válida", func(in *inventory.MovementInput) { in.Hora = "14:30:00" }, false},
		{"hora mal formada", func(in *inventory.MovementInput) { in.Hora = "2:30pm" }, true},
		{"tiempo de producción en entrada", func(in *inventory.MovementInput) { in.TiempoProd = minutos(45) }, false},
		{"tiempo de producción negativo", func(in *inventory.MovementInput) { in.TiempoProd = minutos(-1) }, true},
		{"tiempo de producción en salida", func(in *inventory.MovementInput) {
			in.Type = entity.MovementSalida
			in.TiempoProd = minutos(45)
		}, true},
		{"despachado_por en salida", func(in *inventory.MovementInput) {
			in.Type = entity.MovementSalida
			in.DespachadoPor = "María"
		}, false},
		{"despachado_por en entrada", func(in *inventory.MovementInput) { in.DespachadoPor = "María" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valida()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

// Una entrada suma al stock y queda asentada en el libro.
func TestRegister_EntradaSumaStock(t *testing.T) {
	uc, products, movs := newFixture(10)

	mov, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID:  "p1",
		Type:       entity.MovementEntrada,
		Quantity:   7,
		UserID:     "user-1",
		Reason:     "Compra a proveedor",
		TiempoProd: minutos(30),
	})
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.NotEmpty(t, mov.ID)
	assert.Equal(t, int64(7), mov.Quantity)

	p, _ := products.GetByID("p1")
	assert.Equal(t, int64(17), p.CurrentStock)
	require.Len(t, movs.movements, 1)
	assert.Equal(t, entity.MovementEntrada, movs.movements[0].Type)
}

// Una salida descuenta del stock.
func TestRegister_SalidaDescuentaStock(t *testing.T) {
	uc, products, _ := newFixture(10)

	_, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID:     "p1",
		Type:          entity.MovementSalida,
		Quantity:      4,
		UserID:        "user-1",
		DespachadoPor: "María",
	})
	require.NoError(t, err)

	p, _ := products.GetByID("p1")
	assert.Equal(t, int64(6), p.CurrentStock)
}

// Una salida que dejaría stock negativo se rechaza sin dejar rastro.
func TestRegister_SalidaSobreStockRechazada(t *testing.T) {
	uc, products, movs := newFixture(3)

	_, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementSalida,
		Quantity:  5,
		UserID:    "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := products.GetByID("p1")
	assert.Equal(t, int64(3), p.CurrentStock, "el stock no se toca")
	assert.Empty(t, movs.movements, "no se asienta nada en el libro")
}

// Salida exacta deja el stock en cero, nunca negativo.
func TestRegister_SalidaExactaDejaCero(t *testing.T) {
	uc, products, _ := newFixture(5)

	_, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementSalida,
		Quantity:  5,
		UserID:    "user-1",
	})
	require.NoError(t, err)

	p, _ := products.GetByID("p1")
	assert.Equal(t, int64(0), p.CurrentStock)
}

// Producto inexistente.
func TestRegister_ProductoInexistente(t *testing.T) {
	uc, _, _ := newFixture(10)

	_, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID: "no-existe",
		Type:      entity.MovementEntrada,
		Quantity:  1,
		UserID:    "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Invariante del libro: el stock del producto siempre coincide con la suma
// con signo de sus movimientos partiendo del stock inicial cero.
func TestRegister_StockCoincideConSumaDelLibro(t *testing.T) {
	uc, products, movs := newFixture(0)

	pasos := []struct {
		tipo string
		qty  int64
	}{
		{entity.MovementEntrada, 50},
		{entity.MovementSalida, 12},
		{entity.MovementEntrada, 8},
		{entity.MovementSalida, 30},
	}
	for _, paso := range pasos {
		_, err := uc.Register(context.Background(), inventory.MovementInput{
			ProductID: "p1",
			Type:      paso.tipo,
			Quantity:  paso.qty,
			UserID:    "user-1",
		})
		require.NoError(t, err)
	}

	sum, err := movs.SumByProduct("p1")
	require.NoError(t, err)
	p, _ := products.GetByID("p1")
	assert.Equal(t, p.CurrentStock, sum)
	assert.Equal(t, int64(16), sum)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorTipo(t *testing.T) {
	uc, _, _ := newFixture(100)

	for _, tipo := range []string{entity.MovementEntrada, entity.MovementSalida, entity.MovementEntrada} {
		_, err := uc.Register(context.Background(), inventory.MovementInput{
			ProductID: "p1",
			Type:      tipo,
			Quantity:  1,
			UserID:    "user-1",
		})
		require.NoError(t, err)
	}

	resp, err := uc.List(repository.MovementFilter{Type: entity.MovementEntrada})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 50, resp.Page.Limit, "límite por defecto")
}

func TestList_TipoInvalidoRechazado(t *testing.T) {
	uc, _, _ := newFixture(1)
	_, err := uc.List(repository.MovementFilter{Type: "ajuste"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests LedgerCheck
// ──────────────────────────────────────────────────────────────────────────────

// Mientras todo pase por el libro, stock y suma coinciden.
func TestLedgerCheck_Consistente(t *testing.T) {
	uc, _, _ := newFixture(0)

	for _, paso := range []struct {
		tipo string
		qty  int64
	}{
		{entity.MovementEntrada, 20},
		{entity.MovementSalida, 7},
	} {
		_, err := uc.Register(context.Background(), inventory.MovementInput{
			ProductID: "p1",
			Type:      paso.tipo,
			Quantity:  paso.qty,
			UserID:    "user-1",
		})
		require.NoError(t, err)
	}

	check, err := uc.LedgerCheck("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(13), check.CurrentStock)
	assert.Equal(t, int64(13), check.LedgerSum)
	assert.True(t, check.Consistent)
}

// Un override administrativo fija el stock fuera del libro: la verificación
// lo reporta como divergencia, no como error.
func TestLedgerCheck_DivergeTrasOverride(t *testing.T) {
	uc, products, _ := newFixture(0)

	_, err := uc.Register(context.Background(), inventory.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementEntrada,
		Quantity:  20,
		UserID:    "user-1",
	})
	require.NoError(t, err)

	// Conteo físico que pisa el stock sin asentar movimiento.
	require.NoError(t, products.SetStock("p1", 18))

	check, err := uc.LedgerCheck("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(18), check.CurrentStock)
	assert.Equal(t, int64(20), check.LedgerSum)
	assert.False(t, check.Consistent)
}

func TestLedgerCheck_ProductoInexistente(t *testing.T) {
	uc, _, _ := newFixture(1)
	_, err := uc.LedgerCheck("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
