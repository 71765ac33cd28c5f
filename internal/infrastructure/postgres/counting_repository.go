package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

var _ repository.CountingRepository = (*CountingRepo)(nil)

// CountingRepo implementación del puerto CountingRepository sobre PostgreSQL
// (usable con pool o tx).
type CountingRepo struct {
	q Querier
}

// NewCountingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountingRepository(q Querier) *CountingRepo {
	return &CountingRepo{q: q}
}

const countingColumns = `id, company_id, name, description, status, created_by, assigned_to, sector_ids, share_token, created_at, updated_at, completed_at, approved_at, approved_by`

// Create persiste el conteo y todos sus ítems.
func (r *CountingRepo) Create(c *entity.Counting) error {
	query := `
		INSERT INTO countings (` + countingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.Name, c.Description, c.Status, c.CreatedBy,
		nullable(c.AssignedTo), c.SectorIDs, c.ShareToken,
		c.CreatedAt, c.UpdatedAt, c.CompletedAt, c.ApprovedAt, nullable(c.ApprovedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert counting: %w", err)
	}
	for i := range c.Items {
		if err := r.insertItem(&c.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *CountingRepo) insertItem(it *entity.CountingItem) error {
	query := `
		INSERT INTO counting_items (id, counting_id, product_id, sector_id, expected_qty, counted_qty, notes, counted_by, counted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.CountingID, it.ProductID, it.SectorID,
		it.ExpectedQty, it.CountedQty, it.Notes, nullable(it.CountedBy), it.CountedAt,
	)
	if err != nil {
		return fmt.Errorf("insert counting item: %w", err)
	}
	return nil
}

// GetByID obtiene un conteo con sus ítems.
func (r *CountingRepo) GetByID(id string) (*entity.Counting, error) {
	return r.getByCondition(`id::text = $1`, id)
}

// GetByShareToken resuelve por token de compartir o por ID: ambas formas de
// URL pasan por este único camino de búsqueda.
func (r *CountingRepo) GetByShareToken(ref string) (*entity.Counting, error) {
	return r.getByCondition(`share_token = $1 OR id::text = $1`, ref)
}

func (r *CountingRepo) getByCondition(cond, arg string) (*entity.Counting, error) {
	query := `SELECT ` + countingColumns + ` FROM countings WHERE ` + cond
	c, err := scanCounting(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counting: %w", err)
	}
	items, err := r.listItems(c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (r *CountingRepo) listItems(countingID string) ([]entity.CountingItem, error) {
	query := `
		SELECT id, counting_id, product_id, sector_id, expected_qty, counted_qty, notes, counted_by, counted_at
		FROM counting_items WHERE counting_id = $1 ORDER BY sector_id, product_id`
	rows, err := r.q.Query(context.Background(), query, countingID)
	if err != nil {
		return nil, fmt.Errorf("list counting items: %w", err)
	}
	defer rows.Close()
	var items []entity.CountingItem
	for rows.Next() {
		var it entity.CountingItem
		var notes, countedBy *string
		if err := rows.Scan(&it.ID, &it.CountingID, &it.ProductID, &it.SectorID,
			&it.ExpectedQty, &it.CountedQty, &notes, &countedBy, &it.CountedAt); err != nil {
			return nil, fmt.Errorf("scan counting item: %w", err)
		}
		if notes != nil {
			it.Notes = *notes
		}
		if countedBy != nil {
			it.CountedBy = *countedBy
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByCompany lista conteos por empresa con paginación (sin ítems).
func (r *CountingRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Counting, error) {
	query := `
		SELECT ` + countingColumns + `
		FROM countings WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list countings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Counting
	for rows.Next() {
		c, err := scanCounting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counting: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateItem reemplaza los campos capturables del ítem, keyed por su ID.
func (r *CountingRepo) UpdateItem(it *entity.CountingItem) error {
	query := `
		UPDATE counting_items
		SET counted_qty = $2, notes = $3, counted_by = $4, counted_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		it.ID, it.CountedQty, it.Notes, nullable(it.CountedBy), it.CountedAt,
	)
	if err != nil {
		return fmt.Errorf("update counting item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkInProgress mueve draft/pending a in_progress; no-op en otros estados.
func (r *CountingRepo) MarkInProgress(id string, at time.Time) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE countings SET status = $2, updated_at = $3
		WHERE id::text = $1 AND status IN ($4, $5)`,
		id, entity.CountingStatusInProgress, at,
		entity.CountingStatusDraft, entity.CountingStatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark counting in progress: %w", err)
	}
	return nil
}

// Complete cierra el conteo. La completitud se re-verifica en el mismo UPDATE:
// si queda algún ítem sin counted_qty, o el conteo ya está cerrado/aprobado,
// ninguna fila cambia y se devuelve false.
func (r *CountingRepo) Complete(id string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE countings SET status = $2, completed_at = $3, updated_at = $3
		WHERE id::text = $1
		  AND status NOT IN ($4, $5)
		  AND NOT EXISTS (
			SELECT 1 FROM counting_items
			WHERE counting_id = countings.id AND counted_qty IS NULL
		  )`,
		id, entity.CountingStatusCompleted, at,
		entity.CountingStatusCompleted, entity.CountingStatusApproved,
	)
	if err != nil {
		return false, fmt.Errorf("complete counting: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Approve aprueba el conteo solo si está completado (verificación en el punto
// de commit contra el estado vigente en la base).
func (r *CountingRepo) Approve(id, approvedBy string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE countings SET status = $3, approved_by = $2, approved_at = $4, updated_at = $4
		WHERE id::text = $1 AND status = $5`,
		id, approvedBy, entity.CountingStatusApproved, at, entity.CountingStatusCompleted,
	)
	if err != nil {
		return false, fmt.Errorf("approve counting: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// scanCounting lee una fila de countings desde un pgx.Row o pgx.Rows.
func scanCounting(row pgx.Row) (*entity.Counting, error) {
	var c entity.Counting
	var description, assignedTo, approvedBy *string
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &description, &c.Status, &c.CreatedBy,
		&assignedTo, &c.SectorIDs, &c.ShareToken,
		&c.CreatedAt, &c.UpdatedAt, &c.CompletedAt, &c.ApprovedAt, &approvedBy,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		c.Description = *description
	}
	if assignedTo != nil {
		c.AssignedTo = *assignedTo
	}
	if approvedBy != nil {
		c.ApprovedBy = *approvedBy
	}
	return &c, nil
}

// nullable convierte cadena vacía en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
