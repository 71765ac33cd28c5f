package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

var _ repository.SectorRepository = (*SectorRepo)(nil)

// SectorRepo implementación del puerto SectorRepository sobre PostgreSQL.
type SectorRepo struct {
	q Querier
}

// NewSectorRepository construye el adaptador de persistencia para sectores.
func NewSectorRepository(q Querier) *SectorRepo {
	return &SectorRepo{q: q}
}

// Create persiste un nuevo sector.
func (r *SectorRepo) Create(sector *entity.Sector) error {
	query := `
		INSERT INTO sectors (id, company_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		sector.ID, sector.CompanyID, sector.Name, sector.Description,
		sector.CreatedAt, sector.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sector: %w", err)
	}
	return nil
}

// GetByID obtiene un sector por ID.
func (r *SectorRepo) GetByID(id string) (*entity.Sector, error) {
	query := `
		SELECT id, company_id, name, description, created_at, updated_at
		FROM sectors WHERE id = $1`
	var s entity.Sector
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sector: %w", err)
	}
	return &s, nil
}

// Update actualiza un sector existente.
func (r *SectorRepo) Update(sector *entity.Sector) error {
	query := `
		UPDATE sectors SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sector.ID, sector.Name, sector.Description, sector.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sector: %w", err)
	}
	return nil
}

// ListByCompany lista sectores por empresa con paginación.
func (r *SectorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sector, error) {
	query := `
		SELECT id, company_id, name, description, created_at, updated_at
		FROM sectors WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sector
	for rows.Next() {
		var s entity.Sector
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un sector por ID.
func (r *SectorRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	return nil
}

// AssignProduct vincula un producto al sector (idempotente por constraint único).
func (r *SectorRepo) AssignProduct(sectorID, productID string) error {
	query := `
		INSERT INTO sector_products (id, sector_id, product_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (sector_id, product_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, uuid.New().String(), sectorID, productID)
	if err != nil {
		return fmt.Errorf("assign product to sector: %w", err)
	}
	return nil
}

// UnassignProduct desvincula un producto del sector.
func (r *SectorRepo) UnassignProduct(sectorID, productID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM sector_products WHERE sector_id = $1 AND product_id = $2`,
		sectorID, productID,
	)
	if err != nil {
		return fmt.Errorf("unassign product from sector: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListProducts devuelve los productos activos asignados al sector.
func (r *SectorRepo) ListProducts(sectorID string) ([]*entity.Product, error) {
	query := `
		SELECT p.id, p.company_id, p.sku, p.name, p.description, p.current_stock, p.unit_measure, p.active, p.created_at, p.updated_at
		FROM products p
		JOIN sector_products sp ON sp.product_id = p.id
		WHERE sp.sector_id = $1 AND p.active
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query, sectorID)
	if err != nil {
		return nil, fmt.Errorf("list sector products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description,
			&p.CurrentStock, &p.UnitMeasure, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sector product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
