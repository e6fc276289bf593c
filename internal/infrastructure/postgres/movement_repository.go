package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, user_id, reason, fecha, hora, despachado_por, tiempo_produccion, transaction_id, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: las filas son inmutables.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row, m *entity.Movement) error {
	var fecha, hora, despachadoPor, transactionID *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UserID, &m.Reason,
		&fecha, &hora, &despachadoPor, &m.TiempoProd, &transactionID, &m.CreatedAt,
	)
	if err != nil {
		return err
	}
	if fecha != nil {
		m.Fecha = *fecha
	}
	if hora != nil {
		m.Hora = *hora
	}
	if despachadoPor != nil {
		m.DespachadoPor = *despachadoPor
	}
	if transactionID != nil {
		m.TransactionID = *transactionID
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserta una fila en el libro de movimientos. Un choque con el
// índice único parcial (transaction_id, product_id) significa que otra
// transacción ya confirmó la misma venta: se devuelve ErrDuplicate para
// que el protocolo de venta tome la ruta de reintento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, product_id, type, quantity, user_id, reason, fecha, hora, despachado_por, tiempo_produccion, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.UserID, movement.Reason,
		nullable(movement.Fecha), nullable(movement.Hora), nullable(movement.DespachadoPor),
		movement.TiempoProd, nullable(movement.TransactionID), movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	var m entity.Movement
	err := scanMovement(r.q.QueryRow(context.Background(),
		`SELECT `+movementColumns+` FROM movements WHERE id = $1`, id), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// List lista movimientos según filtro, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	// El rango filtra por la fecha declarada del movimiento cuando existe
	// (movimientos retro-fechados) y por created_at en su defecto.
	if filter.From != nil {
		query += fmt.Sprintf(" AND COALESCE(fecha::date, created_at::date) >= $%d::date", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND COALESCE(fecha::date, created_at::date) <= $%d::date", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := scanMovement(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

const movementWithProductColumns = `m.id, m.product_id, m.type, m.quantity, m.user_id, m.reason, m.fecha, m.hora, m.despachado_por, m.tiempo_produccion, m.transaction_id, m.created_at, p.name, p.sku, p.unit, p.price`

func scanMovementWithProduct(row pgx.Row) (*repository.MovementWithProduct, error) {
	var mp repository.MovementWithProduct
	m := &mp.Movement
	var fecha, hora, despachadoPor, transactionID *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UserID, &m.Reason,
		&fecha, &hora, &despachadoPor, &m.TiempoProd, &transactionID, &m.CreatedAt,
		&mp.ProductName, &mp.ProductSKU, &mp.ProductUnit, &mp.ProductPrice,
	)
	if err != nil {
		return nil, err
	}
	if fecha != nil {
		m.Fecha = *fecha
	}
	if hora != nil {
		m.Hora = *hora
	}
	if despachadoPor != nil {
		m.DespachadoPor = *despachadoPor
	}
	if transactionID != nil {
		m.TransactionID = *transactionID
	}
	return &mp, nil
}

// ListWithProduct lista movimientos del rango [from, to] con identidad del
// producto, para el agregador de reportes. El rango compara contra la
// fecha declarada del movimiento cuando existe (retro-fechados) y contra
// created_at en su defecto. Orden cronológico ascendente.
func (r *MovementRepo) ListWithProduct(from, to time.Time) ([]*repository.MovementWithProduct, error) {
	query := `
		SELECT ` + movementWithProductColumns + `
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE COALESCE(m.fecha::date, m.created_at::date) >= $1::date
		  AND COALESCE(m.fecha::date, m.created_at::date) <= $2::date
		ORDER BY m.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list movements with product: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementWithProduct
	for rows.Next() {
		mp, err := scanMovementWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, mp)
	}
	return list, rows.Err()
}

// ListByTransactionID devuelve los movimientos de una venta confirmada,
// en el orden en que se insertaron.
func (r *MovementRepo) ListByTransactionID(txID string) ([]*repository.MovementWithProduct, error) {
	query := `
		SELECT ` + movementWithProductColumns + `
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.transaction_id = $1
		ORDER BY m.created_at ASC, m.id ASC`
	rows, err := r.q.Query(context.Background(), query, txID)
	if err != nil {
		return nil, fmt.Errorf("list by transaction: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementWithProduct
	for rows.Next() {
		mp, err := scanMovementWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, mp)
	}
	return list, rows.Err()
}

// ExistsByTransactionID indica si una venta con esa clave de idempotencia
// ya fue confirmada.
func (r *MovementRepo) ExistsByTransactionID(txID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM movements WHERE transaction_id = $1)`, txID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by transaction: %w", err)
	}
	return exists, nil
}

// SumByProduct devuelve la suma con signo del libro para un producto
// (entradas - salidas).
func (r *MovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE WHEN type = 'entrada' THEN quantity ELSE -quantity END), 0)
		FROM movements WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum by product: %w", err)
	}
	return sum, nil
}
