package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, type, quantity_before, quantity_after, reference_id, notes, created_by, created_at`

// Create persiste un movimiento de ajuste.
func (r *MovementRepo) Create(m *entity.ProductMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO product_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ProductID, m.Type,
		m.QuantityBefore, m.QuantityAfter, m.ReferenceID,
		nullable(m.Notes), nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product movement: %w", err)
	}
	return nil
}

// ListByReference lista los movimientos generados por un conteo.
func (r *MovementRepo) ListByReference(referenceID string) ([]*entity.ProductMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM product_movements WHERE reference_id = $1 ORDER BY created_at`
	return r.list(query, referenceID)
}

// ListByProduct lista movimientos por producto con paginación.
func (r *MovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.ProductMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM product_movements WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

// ListByCompany lista movimientos por empresa con paginación.
func (r *MovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM product_movements WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, companyID, limit, offset)
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.ProductMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.ProductMovement, error) {
	var m entity.ProductMovement
	var notes, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.Type,
		&m.QuantityBefore, &m.QuantityAfter, &m.ReferenceID,
		&notes, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		m.Notes = *notes
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
