package localcache_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/infrastructure/localcache"
)

func openStore(t *testing.T) *localcache.Store {
	t.Helper()
	s, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCounting() *entity.Counting {
	now := time.Now().UTC().Truncate(time.Second)
	counted := decimal.NewFromInt(7)
	countedAt := now.Add(time.Minute)
	return &entity.Counting{
		ID:         "cnt-1",
		CompanyID:  "co-1",
		Name:       "Conteo bodega",
		Status:     entity.CountingStatusInProgress,
		CreatedBy:  "user-1",
		SectorIDs:  []string{"sec-1"},
		ShareToken: "token-abc",
		CreatedAt:  now,
		UpdatedAt:  now,
		Items: []entity.CountingItem{
			{
				ID: "it-1", CountingID: "cnt-1", ProductID: "prod-a", SectorID: "sec-1",
				ExpectedQty: decimal.NewFromInt(10), CountedQty: &counted,
				CountedBy: "Luz", CountedAt: &countedAt,
			},
			{
				ID: "it-2", CountingID: "cnt-1", ProductID: "prod-b", SectorID: "sec-1",
				ExpectedQty: decimal.NewFromInt(5),
			},
		},
	}
}

// El caché conserva el conteo completo con decimales y fechas intactos.
func TestPut_RoundTripCompleto(t *testing.T) {
	s := openStore(t)
	original := sampleCounting()
	require.NoError(t, s.Put(original))

	got, err := s.GetByID("cnt-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.Status, got.Status)
	assert.Equal(t, original.SectorIDs, got.SectorIDs)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].ExpectedQty.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, got.Items[0].CountedQty)
	assert.True(t, got.Items[0].CountedQty.Equal(decimal.NewFromInt(7)))
	assert.Nil(t, got.Items[1].CountedQty, "el ítem sin captura sigue sin captura")
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt))
}

// Put es un reemplazo por ID: refrescar con una versión nueva no duplica ítems.
func TestPut_RefrescoReemplazaSinDuplicar(t *testing.T) {
	s := openStore(t)
	c := sampleCounting()
	require.NoError(t, s.Put(c))

	q := decimal.NewFromInt(5)
	c.Items[1].CountedQty = &q
	c.Status = entity.CountingStatusCompleted
	require.NoError(t, s.Put(c))

	got, err := s.GetByID("cnt-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, entity.CountingStatusCompleted, got.Status)
	assert.True(t, got.AllCounted())
}

func TestGetByShareToken_TokenOID(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(sampleCounting()))

	porToken, err := s.GetByShareToken("token-abc")
	require.NoError(t, err)
	require.NotNil(t, porToken)

	porID, err := s.GetByShareToken("cnt-1")
	require.NoError(t, err)
	require.NotNil(t, porID)
	assert.Equal(t, porToken.ID, porID.ID)

	ninguno, err := s.GetByShareToken("no-existe")
	require.NoError(t, err)
	assert.Nil(t, ninguno)
}

func TestUpdateItem_PersisteCaptura(t *testing.T) {
	s := openStore(t)
	c := sampleCounting()
	require.NoError(t, s.Put(c))

	q := decimal.NewFromInt(4)
	now := time.Now().UTC()
	item := c.Items[1]
	item.CountedQty = &q
	item.CountedBy = "Pedro"
	item.CountedAt = &now
	require.NoError(t, s.UpdateItem(&item))

	got, err := s.GetByID("cnt-1")
	require.NoError(t, err)
	for _, it := range got.Items {
		if it.ID == "it-2" {
			require.NotNil(t, it.CountedQty)
			assert.True(t, it.CountedQty.Equal(q))
			assert.Equal(t, "Pedro", it.CountedBy)
		}
	}
}

// Complete replica la verificación condicional del almacén primario.
func TestComplete_ExigeTodosLosItemsContados(t *testing.T) {
	s := openStore(t)
	c := sampleCounting()
	require.NoError(t, s.Put(c))

	ok, err := s.Complete("cnt-1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "con un ítem sin contar la transición no aplica")

	q := decimal.NewFromInt(5)
	item := c.Items[1]
	item.CountedQty = &q
	require.NoError(t, s.UpdateItem(&item))

	ok, err = s.Complete("cnt-1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	// Segunda finalización: el estado ya no permite la transición.
	ok, err = s.Complete("cnt-1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

// La aprobación mueve stock y nunca opera sobre el caché degradado.
func TestApprove_NoDisponibleEnCache(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(sampleCounting()))

	_, err := s.Approve("cnt-1", "user-9", time.Now())
	assert.Error(t, err)
}
