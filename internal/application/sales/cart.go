package sales

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
)

// CartLine una línea del carrito: snapshot del producto al momento de
// agregar, cantidad acumulada y precio unitario congelado al agregar.
type CartLine struct {
	Product   entity.Product
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Total de la línea: cantidad × precio unitario.
func (l *CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart acumula líneas candidatas de una venta antes del commit. Vive en
// memoria, muere con el proceso: recargar la página o cerrar sesión lo
// descarta, igual que en el punto de venta original. Los topes de stock
// que valida aquí son contra el último snapshot conocido del producto; la
// palabra final la tiene la revalidación transaccional del commit.
type Cart struct {
	mu    sync.Mutex
	lines []*CartLine // orden de inserción; una línea por producto
}

// NewCart construye un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) (int, *CartLine) {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i, l
		}
	}
	return -1, nil
}

// AddProduct agrega una unidad del producto. Sin stock -> ErrOutOfStock.
// Si la línea existe y sumar 1 excede el stock conocido, se rechaza con
// ErrInsufficientStock y la línea queda intacta (sin incremento parcial).
func (c *Cart) AddProduct(product *entity.Product) error {
	if product == nil {
		return domain.ErrInvalidInput
	}
	if product.CurrentStock <= 0 {
		return domain.ErrOutOfStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, line := c.find(product.ID); line != nil {
		if line.Quantity+1 > product.CurrentStock {
			return domain.ErrInsufficientStock
		}
		line.Quantity++
		line.Product = *product // refrescar snapshot con el stock más reciente
		return nil
	}

	c.lines = append(c.lines, &CartLine{
		Product:   *product,
		Quantity:  1,
		UnitPrice: product.PriceOrZero(),
	})
	return nil
}

// ChangeQuantity aplica delta a la línea del producto. Resultado <= 0
// elimina la línea; exceder el stock conocido se rechaza sin recortar.
func (c *Cart) ChangeQuantity(productID string, delta int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, line := c.find(productID)
	if line == nil {
		return domain.ErrNotFound
	}
	newQty := line.Quantity + delta
	if newQty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}
	if newQty > line.Product.CurrentStock {
		return domain.ErrInsufficientStock
	}
	line.Quantity = newQty
	return nil
}

// RemoveLine elimina la línea del producto, sin condiciones.
func (c *Cart) RemoveLine(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, line := c.find(productID); line != nil {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Snapshot devuelve una copia de las líneas actuales.
func (c *Cart) Snapshot() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

// Clear vacía el carrito (commit exitoso o cancelación).
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total suma de los totales de línea.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// TotalItems suma de cantidades.
func (c *Cart) TotalItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Empty indica si el carrito no tiene líneas.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// ToResponse arma el DTO del carrito.
func (c *Cart) ToResponse() *dto.CartResponse {
	snapshot := c.Snapshot()
	resp := &dto.CartResponse{
		Lines: make([]dto.CartLineResponse, 0, len(snapshot)),
		Total: decimal.Zero,
	}
	for i := range snapshot {
		l := &snapshot[i]
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			ProductSKU:  l.Product.SKU,
			Unit:        l.Product.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
		resp.Total = resp.Total.Add(l.Total())
		resp.TotalItems += l.Quantity
	}
	return resp
}

// CartStore mantiene un carrito por usuario autenticado. Solo protege el
// mapa; cada carrito se sincroniza a sí mismo.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewCartStore construye el almacén de carritos.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*Cart)}
}

// Get devuelve el carrito del usuario, creándolo si no existe.
func (s *CartStore) Get(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		cart = NewCart()
		s.carts[userID] = cart
	}
	return cart
}

// Drop descarta el carrito del usuario (cancelación de venta).
func (s *CartStore) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
