package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos del libro de inventario de
// forma transaccional: bloquea la fila del producto (SELECT FOR UPDATE),
// valida, ajusta current_stock e inserta la fila del movimiento en un solo
// Commit. Una salida que dejaría el stock negativo se rechaza con
// ErrInsufficientStock y no deja rastro.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID     string
	Type          string // entrada | salida
	Quantity      int64
	UserID        string
	Reason        string
	Fecha         string // opcional, YYYY-MM-DD
	Hora          string // opcional, HH:MM:SS
	DespachadoPor string // solo salidas
	TiempoProd    *int64 // solo entradas, minutos
	TransactionID string // vacío en movimientos sueltos
}

// Validate revisa forma y rangos del input antes de tocar la BD.
func (in *MovementInput) Validate() error {
	if in.ProductID == "" || in.UserID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Fecha != "" {
		if _, err := time.Parse(entity.FechaLayout, in.Fecha); err != nil {
			return domain.ErrInvalidInput
		}
	}
	if in.Hora != "" {
		if _, err := time.Parse(entity.HoraLayout, in.Hora); err != nil {
			return domain.ErrInvalidInput
		}
	}
	// Convenciones por tipo: tiempo de producción en entradas,
	// despachado_por en salidas.
	if in.TiempoProd != nil && (in.Type != entity.MovementEntrada || *in.TiempoProd < 0) {
		return domain.ErrInvalidInput
	}
	if in.DespachadoPor != "" && in.Type != entity.MovementSalida {
		return domain.ErrInvalidInput
	}
	return nil
}

// Register valida el input, verifica que el producto exista y aplica el
// movimiento dentro de una transacción.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var created *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.StockOverrideRepository,
	) error {
		mov, err := ApplyInTx(movRepo, productRepo, input, now)
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyInTx aplica un movimiento usando repositorios del caller (misma
// transacción): bloquea la fila del producto, valida stock en salidas,
// escribe el nuevo stock e inserta la fila del libro. Lo usa también el
// protocolo de venta para aplicar el lote línea por línea.
func ApplyInTx(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	input MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newStock := product.CurrentStock
	switch input.Type {
	case entity.MovementEntrada:
		newStock += input.Quantity
	case entity.MovementSalida:
		if product.CurrentStock < input.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		newStock -= input.Quantity
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := productRepo.SetStock(product.ID, newStock); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     input.ProductID,
		Type:          input.Type,
		Quantity:      input.Quantity,
		UserID:        input.UserID,
		Reason:        input.Reason,
		Fecha:         input.Fecha,
		Hora:          input.Hora,
		DespachadoPor: input.DespachadoPor,
		TiempoProd:    input.TiempoProd,
		TransactionID: input.TransactionID,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// List devuelve movimientos filtrados, enriquecidos vía join cuando se
// listan para reportes (aquí solo filas planas del libro).
func (uc *RegisterMovementUseCase) List(filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Type != "" && !entity.ValidType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	list, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m, "", ""))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// LedgerCheck compara el stock actual del producto con la suma con signo
// de su libro de movimientos. Tras un override administrativo ambos
// números divergen a propósito; esta verificación hace visible el desfase.
func (uc *RegisterMovementUseCase) LedgerCheck(productID string) (*dto.LedgerCheckResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumByProduct(productID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerCheckResponse{
		ProductID:    productID,
		CurrentStock: product.CurrentStock,
		LedgerSum:    sum,
		Consistent:   product.CurrentStock == sum,
	}, nil
}

// ToMovementResponse mapea la entidad a su DTO de salida.
func ToMovementResponse(m *entity.Movement, productName, productSKU string) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   productName,
		ProductSKU:    productSKU,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UserID:        m.UserID,
		Reason:        m.Reason,
		Fecha:         m.Fecha,
		Hora:          m.Hora,
		DespachadoPor: m.DespachadoPor,
		TiempoProd:    m.TiempoProd,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
	}
}
