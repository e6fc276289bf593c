package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/inventory"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// SaleReason etiqueta fija de las salidas generadas por una venta.
const SaleReason = "Venta"

// InsufficientStockError detalla qué líneas no pasaron la revalidación de
// stock del commit. Envuelve ErrInsufficientStock para errors.Is.
type InsufficientStockError struct {
	Lines []dto.InsufficientLine
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %d producto(s)", len(e.Lines))
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// CommitSaleUseCase convierte el carrito en un lote de salidas aplicado en
// una sola transacción: revalida el stock vivo de cada línea (el snapshot
// del carrito puede estar viejo), descuenta, inserta los movimientos con
// la misma clave de idempotencia y genera el recibo. Si algo falla, nada
// queda escrito y el carrito no se toca.
type CommitSaleUseCase struct {
	txRunner    inventory.TxRunner
	userRepo    repository.UserRepository
	movRepo     repository.MovementRepository
	carts       *CartStore
	invalidator CatalogInvalidator
}

// NewCommitSaleUseCase construye el caso de uso.
func NewCommitSaleUseCase(
	txRunner inventory.TxRunner,
	userRepo repository.UserRepository,
	movRepo repository.MovementRepository,
	carts *CartStore,
	invalidator CatalogInvalidator,
) *CommitSaleUseCase {
	return &CommitSaleUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		movRepo:     movRepo,
		carts:       carts,
		invalidator: invalidator,
	}
}

// Commit confirma la venta del carrito del usuario. commitID es la clave
// de idempotencia: un reintento con la misma clave devuelve el recibo ya
// confirmado sin volver a descontar stock.
func (uc *CommitSaleUseCase) Commit(ctx context.Context, userID, commitID string) (*dto.ReceiptResponse, error) {
	cart := uc.carts.Get(userID)
	snapshot := cart.Snapshot()
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if commitID == "" {
		commitID = uuid.New().String()
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	despachadoPor := user.DisplayName()

	now := time.Now()
	fecha := now.Format(entity.FechaLayout)
	hora := now.Format(entity.HoraLayout)

	var replayed bool
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.StockOverrideRepository,
	) error {
		// Reintento de un commit ya confirmado: no aplicar nada.
		done, err := movRepo.ExistsByTransactionID(commitID)
		if err != nil {
			return err
		}
		if done {
			replayed = true
			return nil
		}

		// Primera pasada: bloquear cada producto y revalidar contra el
		// stock vivo. Se reportan TODAS las líneas insuficientes, no solo
		// la primera, y el lote entero se aborta.
		var faltantes []dto.InsufficientLine
		for i := range snapshot {
			line := &snapshot[i]
			product, err := productRepo.GetForUpdate(line.Product.ID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if product.CurrentStock < line.Quantity {
				faltantes = append(faltantes, dto.InsufficientLine{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.CurrentStock,
				})
			}
		}
		if len(faltantes) > 0 {
			return &InsufficientStockError{Lines: faltantes}
		}

		// Segunda pasada: aplicar cada salida (las filas ya están
		// bloqueadas por esta transacción).
		for i := range snapshot {
			line := &snapshot[i]
			if _, err := inventory.ApplyInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID:     line.Product.ID,
				Type:          entity.MovementSalida,
				Quantity:      line.Quantity,
				UserID:        userID,
				Reason:        SaleReason,
				Fecha:         fecha,
				Hora:          hora,
				DespachadoPor: despachadoPor,
				TransactionID: commitID,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Dos commits concurrentes con la misma clave: el perdedor choca
		// con el índice único de transaction_id después de que el ganador
		// confirmó. Para el cliente es el mismo reintento idempotente.
		if errors.Is(err, domain.ErrDuplicate) {
			replayed = true
		} else {
			// Carrito intacto: el caller puede corregir y reintentar.
			return nil, err
		}
	}

	if replayed {
		receipt, err := uc.Receipt(ctx, commitID)
		if err != nil {
			return nil, err
		}
		receipt.AlreadyDone = true
		return receipt, nil
	}

	receipt := buildReceipt(commitID, fecha, hora, despachadoPor, snapshot)
	cart.Clear()
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx)
	}
	return receipt, nil
}

// Receipt reconstruye el recibo de una venta confirmada a partir del
// libro de movimientos (para reimpresión del comprobante).
func (uc *CommitSaleUseCase) Receipt(ctx context.Context, saleID string) (*dto.ReceiptResponse, error) {
	rows, err := uc.movRepo.ListByTransactionID(saleID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	receipt := &dto.ReceiptResponse{
		SaleID:        saleID,
		Fecha:         rows[0].Movement.Fecha,
		Hora:          rows[0].Movement.Hora,
		DespachadoPor: rows[0].Movement.DespachadoPor,
		Total:         decimal.Zero,
	}
	for _, row := range rows {
		// El libro no congela el precio de venta; el recibo reconstruido
		// usa el precio vigente del producto (cero si ya no tiene precio).
		unitPrice := decimal.Zero
		if row.ProductPrice != nil {
			unitPrice = *row.ProductPrice
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(row.Movement.Quantity))
		receipt.Lines = append(receipt.Lines, dto.ReceiptLine{
			ProductID:   row.Movement.ProductID,
			ProductName: row.ProductName,
			ProductSKU:  row.ProductSKU,
			Quantity:    row.Movement.Quantity,
			UnitPrice:   unitPrice,
			Total:       lineTotal,
		})
		receipt.Total = receipt.Total.Add(lineTotal)
		receipt.TotalItems += row.Movement.Quantity
	}
	return receipt, nil
}

func buildReceipt(saleID, fecha, hora, despachadoPor string, snapshot []CartLine) *dto.ReceiptResponse {
	receipt := &dto.ReceiptResponse{
		SaleID:        saleID,
		Fecha:         fecha,
		Hora:          hora,
		DespachadoPor: despachadoPor,
		Total:         decimal.Zero,
	}
	for i := range snapshot {
		l := &snapshot[i]
		receipt.Lines = append(receipt.Lines, dto.ReceiptLine{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			ProductSKU:  l.Product.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
		receipt.Total = receipt.Total.Add(l.Total())
		receipt.TotalItems += l.Quantity
	}
	return receipt
}
