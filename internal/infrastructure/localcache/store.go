// Package localcache mantiene una réplica SQLite de los conteos activos para
// que el enlace público de captura siga funcionando cuando la base primaria
// no responde. No es fuente de verdad: el selector de almacenes refresca el
// caché en cada lectura exitosa contra PostgreSQL y la aprobación nunca pasa
// por aquí.
package localcache

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

var _ repository.CountingRepository = (*Store)(nil)

// Store implementa CountingRepository sobre un archivo SQLite local.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open abre (o crea) el archivo de caché y aplica el esquema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir caché local: %w", err)
	}
	// Un solo escritor: SQLite serializa de todos modos y así evitamos SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema de caché: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra el archivo de caché. Idempotente.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Put inserta o reemplaza un conteo completo en el caché. El selector lo
// invoca tras cada lectura exitosa contra la base primaria.
func (s *Store) Put(c *entity.Counting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return domain.ErrStoreUnavailable
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("iniciar tx de caché: %w", err)
	}
	defer tx.Rollback()

	sectors, err := json.Marshal(c.SectorIDs)
	if err != nil {
		return fmt.Errorf("serializar sectores: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO countings
			(id, company_id, name, description, status, created_by, assigned_to,
			 sector_ids, share_token, created_at, updated_at, completed_at, approved_at, approved_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CompanyID, c.Name, c.Description, c.Status, c.CreatedBy, c.AssignedTo,
		string(sectors), c.ShareToken, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt),
		fmtTimePtr(c.CompletedAt), fmtTimePtr(c.ApprovedAt), c.ApprovedBy,
	)
	if err != nil {
		return fmt.Errorf("guardar conteo en caché: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM counting_items WHERE counting_id = ?`, c.ID); err != nil {
		return fmt.Errorf("limpiar ítems en caché: %w", err)
	}
	for i := range c.Items {
		it := &c.Items[i]
		_, err := tx.Exec(`
			INSERT INTO counting_items
				(id, counting_id, product_id, sector_id, expected_qty, counted_qty, notes, counted_by, counted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, it.CountingID, it.ProductID, it.SectorID, it.ExpectedQty.String(),
			fmtDecPtr(it.CountedQty), it.Notes, it.CountedBy, fmtTimePtr(it.CountedAt),
		)
		if err != nil {
			return fmt.Errorf("guardar ítem en caché: %w", err)
		}
	}
	return tx.Commit()
}

// Create equivale a Put: el caché siempre reemplaza por ID.
func (s *Store) Create(c *entity.Counting) error {
	return s.Put(c)
}

// GetByID obtiene un conteo por ID desde el caché.
func (s *Store) GetByID(id string) (*entity.Counting, error) {
	return s.getByCondition(`id = ?`, id)
}

// GetByShareToken resuelve por token de compartir o por ID del conteo.
func (s *Store) GetByShareToken(ref string) (*entity.Counting, error) {
	return s.getByCondition(`share_token = ? OR id = ?`, ref, ref)
}

// ListByCompany lista conteos de una empresa, más recientes primero.
func (s *Store) ListByCompany(companyID string, limit, offset int) ([]*entity.Counting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	rows, err := s.db.Query(`
		SELECT id FROM countings WHERE company_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar conteos en caché: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list := make([]*entity.Counting, 0, len(ids))
	for _, id := range ids {
		c, err := s.getLocked(`id = ?`, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			list = append(list, c)
		}
	}
	return list, nil
}

// UpdateItem reemplaza el ítem completo en el caché.
func (s *Store) UpdateItem(it *entity.CountingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return domain.ErrStoreUnavailable
	}

	res, err := s.db.Exec(`
		UPDATE counting_items
		SET counted_qty = ?, notes = ?, counted_by = ?, counted_at = ?
		WHERE id = ?`,
		fmtDecPtr(it.CountedQty), it.Notes, it.CountedBy, fmtTimePtr(it.CountedAt), it.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar ítem en caché: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkInProgress mueve draft/pending a in_progress en el caché.
func (s *Store) MarkInProgress(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return domain.ErrStoreUnavailable
	}
	_, err := s.db.Exec(`
		UPDATE countings SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		entity.CountingStatusInProgress, fmtTime(at), id,
		entity.CountingStatusDraft, entity.CountingStatusPending,
	)
	if err != nil {
		return fmt.Errorf("marcar en progreso en caché: %w", err)
	}
	return nil
}

// Complete marca el conteo como completado si todos los ítems tienen cantidad.
func (s *Store) Complete(id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return false, domain.ErrStoreUnavailable
	}
	res, err := s.db.Exec(`
		UPDATE countings SET status = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
		  AND status IN (?, ?, ?)
		  AND NOT EXISTS (
			SELECT 1 FROM counting_items WHERE counting_id = ? AND counted_qty IS NULL
		  )`,
		entity.CountingStatusCompleted, fmtTime(at), fmtTime(at), id,
		entity.CountingStatusDraft, entity.CountingStatusPending, entity.CountingStatusInProgress,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("completar conteo en caché: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Approve nunca opera sobre el caché: la aprobación exige la base primaria
// porque mueve stock y genera movimientos.
func (s *Store) Approve(id, approvedBy string, at time.Time) (bool, error) {
	return false, domain.ErrStoreUnavailable
}

func (s *Store) getByCondition(cond string, args ...any) (*entity.Counting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.getLocked(cond, args...)
}

func (s *Store) getLocked(cond string, args ...any) (*entity.Counting, error) {
	var (
		c                       entity.Counting
		sectors                 string
		createdAt, updatedAt    string
		completedAt, approvedAt sql.NullString
	)
	query := `
		SELECT id, company_id, name, description, status, created_by, assigned_to,
		       sector_ids, share_token, created_at, updated_at, completed_at, approved_at, approved_by
		FROM countings WHERE ` + cond
	err := s.db.QueryRow(query, args...).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.Status, &c.CreatedBy, &c.AssignedTo,
		&sectors, &c.ShareToken, &createdAt, &updatedAt, &completedAt, &approvedAt, &c.ApprovedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer conteo de caché: %w", err)
	}
	if err := json.Unmarshal([]byte(sectors), &c.SectorIDs); err != nil {
		return nil, fmt.Errorf("parsear sectores de caché: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if c.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	if c.ApprovedAt, err = parseTimePtr(approvedAt); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, counting_id, product_id, sector_id, expected_qty, counted_qty, notes, counted_by, counted_at
		FROM counting_items WHERE counting_id = ? ORDER BY sector_id, product_id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("leer ítems de caché: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it                 entity.CountingItem
			expected           string
			counted, countedAt sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.CountingID, &it.ProductID, &it.SectorID,
			&expected, &counted, &it.Notes, &it.CountedBy, &countedAt); err != nil {
			return nil, fmt.Errorf("scan ítem de caché: %w", err)
		}
		if it.ExpectedQty, err = decimal.NewFromString(expected); err != nil {
			return nil, fmt.Errorf("parsear cantidad esperada: %w", err)
		}
		if counted.Valid {
			q, err := decimal.NewFromString(counted.String)
			if err != nil {
				return nil, fmt.Errorf("parsear cantidad contada: %w", err)
			}
			it.CountedQty = &q
		}
		if it.CountedAt, err = parseTimePtr(countedAt); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func fmtDecPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsear fecha de caché: %w", err)
	}
	return t, nil
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
