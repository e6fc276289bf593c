package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/inventario-pos/internal/application/sales"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func productoConStock(id, name string, stock int64, price string) *entity.Product {
	var p *decimal.Decimal
	if price != "" {
		d := decimal.RequireFromString(price)
		p = &d
	}
	return &entity.Product{
		ID:           id,
		Name:         name,
		SKU:          "SKU-" + id,
		Unit:         "unidad",
		CurrentStock: stock,
		Price:        p,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Cart
// ──────────────────────────────────────────────────────────────────────────────

// Cada AddProduct suma una unidad; escanear el mismo producto acumula en
// la misma línea.
func TestCart_AddProduct_AcumulaEnLaMismaLinea(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Café 500g", 10, "12.50")

	require.NoError(t, cart.AddProduct(p))
	require.NoError(t, cart.AddProduct(p))
	require.NoError(t, cart.AddProduct(p))

	resp := cart.ToResponse()
	require.Len(t, resp.Lines, 1, "escaneos repetidos no crean líneas nuevas")
	assert.Equal(t, int64(3), resp.Lines[0].Quantity)
	assert.Equal(t, "37.5", resp.Total.String())
	assert.Equal(t, int64(3), resp.TotalItems)
}

// Producto sin stock no puede entrar al carrito.
func TestCart_AddProduct_SinStockRechazado(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Agotado", 0, "5.00")

	err := cart.AddProduct(p)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.True(t, cart.Empty())
}

// Sumar una unidad más allá del stock conocido se rechaza y la línea queda
// intacta.
func TestCart_AddProduct_ExcederStockNoIncrementa(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Escaso", 2, "3.00")

	require.NoError(t, cart.AddProduct(p))
	require.NoError(t, cart.AddProduct(p))

	err := cart.AddProduct(p)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	resp := cart.ToResponse()
	assert.Equal(t, int64(2), resp.Lines[0].Quantity, "la línea no debe cambiar tras el rechazo")
}

// Producto sin precio definido se vende a cero.
func TestCart_AddProduct_SinPrecioVendeACero(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Sin precio", 5, "")

	require.NoError(t, cart.AddProduct(p))

	resp := cart.ToResponse()
	assert.True(t, resp.Total.IsZero())
}

// ChangeQuantity con resultado <= 0 elimina la línea.
func TestCart_ChangeQuantity_CeroEliminaLinea(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Café", 10, "1.00")
	require.NoError(t, cart.AddProduct(p))

	require.NoError(t, cart.ChangeQuantity("p1", -1))
	assert.True(t, cart.Empty())
}

// ChangeQuantity que excede el stock conocido se rechaza sin recortar.
func TestCart_ChangeQuantity_ExcederStockRechazado(t *testing.T) {
	cart := sales.NewCart()
	p := productoConStock("p1", "Café", 3, "1.00")
	require.NoError(t, cart.AddProduct(p))

	err := cart.ChangeQuantity("p1", +5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	resp := cart.ToResponse()
	assert.Equal(t, int64(1), resp.Lines[0].Quantity)
}

// ChangeQuantity sobre un producto que no está en el carrito.
func TestCart_ChangeQuantity_LineaInexistente(t *testing.T) {
	cart := sales.NewCart()
	err := cart.ChangeQuantity("nope", +1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Las líneas conservan el orden de inserción.
func TestCart_OrdenDeInsercion(t *testing.T) {
	cart := sales.NewCart()
	require.NoError(t, cart.AddProduct(productoConStock("a", "Primero", 5, "1.00")))
	require.NoError(t, cart.AddProduct(productoConStock("b", "Segundo", 5, "1.00")))
	require.NoError(t, cart.AddProduct(productoConStock("c", "Tercero", 5, "1.00")))

	resp := cart.ToResponse()
	require.Len(t, resp.Lines, 3)
	assert.Equal(t, "Primero", resp.Lines[0].ProductName)
	assert.Equal(t, "Segundo", resp.Lines[1].ProductName)
	assert.Equal(t, "Tercero", resp.Lines[2].ProductName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CartStore
// ──────────────────────────────────────────────────────────────────────────────

// Get devuelve siempre el mismo carrito para un usuario, y carritos
// distintos para usuarios distintos.
func TestCartStore_UnCarritoPorUsuario(t *testing.T) {
	store := sales.NewCartStore()

	c1 := store.Get("user-1")
	c2 := store.Get("user-2")
	assert.NotSame(t, c1, c2, "usuarios distintos no comparten carrito")
	assert.Same(t, c1, store.Get("user-1"), "mismo usuario, mismo carrito")
}
