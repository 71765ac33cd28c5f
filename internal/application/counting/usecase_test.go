package counting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000c1"
	testUserID    = "00000000-0000-0000-0000-0000000000u1"
	testSectorID  = "00000000-0000-0000-0000-0000000000s1"
)

// entorno de prueba con un sector y dos productos con stock conocido.
type testEnv struct {
	countingRepo *memCountingRepo
	sectorRepo   *memSectorRepo
	productRepo  *memProductRepo
	movementRepo *memMovementRepo
	notifRepo    *memNotificationRepo

	countingUC *appcounting.CountingUseCase
	entryUC    *appcounting.EntryUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		countingRepo: newMemCountingRepo(),
		sectorRepo:   newMemSectorRepo(),
		productRepo:  newMemProductRepo(),
		movementRepo: newMemMovementRepo(),
		notifRepo:    newMemNotificationRepo(),
	}

	env.sectorRepo.sectors[testSectorID] = &entity.Sector{
		ID: testSectorID, CompanyID: testCompanyID, Name: "Bodega principal",
	}
	prodA := &entity.Product{
		ID: "prod-a", CompanyID: testCompanyID, SKU: "A-001",
		Name: "Harina", CurrentStock: decimal.NewFromInt(10), Active: true,
	}
	prodB := &entity.Product{
		ID: "prod-b", CompanyID: testCompanyID, SKU: "B-001",
		Name: "Azúcar", CurrentStock: decimal.NewFromInt(5), Active: true,
	}
	env.productRepo.Create(prodA)
	env.productRepo.Create(prodB)
	env.sectorRepo.products[testSectorID] = []*entity.Product{prodA, prodB}

	env.countingUC = appcounting.NewCountingUseCase(env.countingRepo, env.sectorRepo, env.movementRepo)
	env.entryUC = appcounting.NewEntryUseCase(staticSelector{repo: env.countingRepo}, env.notifRepo, nil)
	return env
}

// createCounting crea un conteo de prueba sobre el sector por defecto.
func (env *testEnv) createCounting(t *testing.T) *dto.CountingResponse {
	t.Helper()
	out, err := env.countingUC.Create(context.Background(), testCompanyID, testUserID, dto.CreateCountingRequest{
		Name:      "Conteo mensual",
		SectorIDs: []string{testSectorID},
	})
	require.NoError(t, err)
	return out
}

// countAll captura todas las cantidades del conteo vía el enlace público.
func (env *testEnv) countAll(t *testing.T, ref string, quantities map[string]decimal.Decimal) {
	t.Helper()
	c, err := env.countingRepo.GetByShareToken(ref)
	require.NoError(t, err)
	require.NotNil(t, c)
	for _, it := range c.Items {
		q := quantities[it.ProductID]
		_, err := env.entryUC.CountItem(context.Background(), ref, it.ID, dto.CountItemRequest{
			CountedQty: &q,
			CountedBy:  "Operario turno noche",
		})
		require.NoError(t, err)
	}
}

// ── Creación ──────────────────────────────────────────────────────────────────

// La creación congela el stock esperado por producto-en-sector; cambios
// posteriores del stock vivo no tocan la foto del conteo.
func TestCreate_CongelaStockEsperado(t *testing.T) {
	env := newTestEnv(t)

	out := env.createCounting(t)
	assert.Equal(t, entity.CountingStatusPending, out.Status)
	assert.NotEmpty(t, out.ShareToken, "el token de compartir se genera al crear")
	require.Len(t, out.Items, 2, "un ítem por producto asignado al sector")

	expected := map[string]decimal.Decimal{
		"prod-a": decimal.NewFromInt(10),
		"prod-b": decimal.NewFromInt(5),
	}
	for _, it := range out.Items {
		assert.True(t, it.ExpectedQty.Equal(expected[it.ProductID]),
			"producto %s: esperado %s, obtuvo %s", it.ProductID, expected[it.ProductID], it.ExpectedQty)
		assert.Nil(t, it.CountedQty, "nada contado al crear")
	}

	// El stock vivo cambia; la foto del conteo no.
	env.productRepo.UpdateStock("prod-a", decimal.NewFromInt(99))
	stored, _ := env.countingRepo.GetByID(out.ID)
	for _, it := range stored.Items {
		if it.ProductID == "prod-a" {
			assert.True(t, it.ExpectedQty.Equal(decimal.NewFromInt(10)),
				"ExpectedQty es una foto, no una referencia al stock vivo")
		}
	}
}

func TestCreate_SinSectoresEsInvalido(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.countingUC.Create(context.Background(), testCompanyID, testUserID, dto.CreateCountingRequest{
		Name: "Sin sectores",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SectorDeOtraEmpresaEsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.sectorRepo.sectors["ajeno"] = &entity.Sector{ID: "ajeno", CompanyID: "otra-empresa"}

	_, err := env.countingUC.Create(context.Background(), testCompanyID, testUserID, dto.CreateCountingRequest{
		Name:      "Cruzado",
		SectorIDs: []string{"ajeno"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un sector de otro tenant no se distingue de uno inexistente")
}

func TestCreate_SectorSinProductosEsInvalido(t *testing.T) {
	env := newTestEnv(t)
	env.sectorRepo.sectors["vacio"] = &entity.Sector{ID: "vacio", CompanyID: testCompanyID}

	_, err := env.countingUC.Create(context.Background(), testCompanyID, testUserID, dto.CreateCountingRequest{
		Name:      "Vacío",
		SectorIDs: []string{"vacio"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un conteo sin ítems no tiene nada que contar")
}

// ── Enlace público: Resolve ───────────────────────────────────────────────────

// El token de compartir y el ID del conteo resuelven por el mismo camino.
func TestResolve_PorTokenYPorID(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	porToken, err := env.entryUC.Resolve(context.Background(), out.ShareToken)
	require.NoError(t, err)
	porID, err := env.entryUC.Resolve(context.Background(), out.ID)
	require.NoError(t, err)

	assert.Equal(t, out.ID, porToken.ID)
	assert.Equal(t, out.ID, porID.ID)
	assert.Empty(t, porToken.ShareToken, "la respuesta pública no re-expone el token")
}

func TestResolve_InexistenteEsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.entryUC.Resolve(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Enlace público: CountItem ─────────────────────────────────────────────────

func TestCountItem_PrimeraCapturaPasaAInProgress(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	q := decimal.NewFromInt(7)
	itemResp, err := env.entryUC.CountItem(context.Background(), out.ShareToken, out.Items[0].ID, dto.CountItemRequest{
		CountedQty: &q,
		CountedBy:  "Luz",
	})
	require.NoError(t, err)
	require.NotNil(t, itemResp.CountedQty)
	assert.True(t, itemResp.CountedQty.Equal(q))
	assert.NotNil(t, itemResp.CountedAt)

	stored, _ := env.countingRepo.GetByID(out.ID)
	assert.Equal(t, entity.CountingStatusInProgress, stored.Status,
		"la primera captura mueve el conteo a in_progress")
}

func TestCountItem_CantidadNegativaRechazada(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	q := decimal.NewFromInt(-1)
	_, err := env.entryUC.CountItem(context.Background(), out.ShareToken, out.Items[0].ID, dto.CountItemRequest{
		CountedQty: &q,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCountItem_ItemInexistenteEsNotFound(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	q := decimal.NewFromInt(1)
	_, err := env.entryUC.CountItem(context.Background(), out.ShareToken, "item-fantasma", dto.CountItemRequest{
		CountedQty: &q,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin cantidad solo se actualizan las notas; el ítem sigue sin contar.
func TestCountItem_SoloNotasNoMarcaContado(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	itemResp, err := env.entryUC.CountItem(context.Background(), out.ShareToken, out.Items[0].ID, dto.CountItemRequest{
		Notes: "estiba bloqueada, contar mañana",
	})
	require.NoError(t, err)
	assert.Nil(t, itemResp.CountedQty)
	assert.Equal(t, "estiba bloqueada, contar mañana", itemResp.Notes)
}

func TestCountItem_ConteoAprobadoEsSoloLectura(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	stored, _ := env.countingRepo.GetByID(out.ID)
	stored.Status = entity.CountingStatusApproved

	q := decimal.NewFromInt(3)
	_, err := env.entryUC.CountItem(context.Background(), out.ShareToken, out.Items[0].ID, dto.CountItemRequest{
		CountedQty: &q,
	})
	assert.ErrorIs(t, err, domain.ErrCountingApproved)
}

// ── Enlace público: Finalize ──────────────────────────────────────────────────

// La completitud se revalida contra el almacén; un cliente que afirme 100% con
// ítems pendientes recibe el rechazo igual.
func TestFinalize_RechazaConteoIncompleto(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	q := decimal.NewFromInt(4)
	_, err := env.entryUC.CountItem(context.Background(), out.ShareToken, out.Items[0].ID, dto.CountItemRequest{
		CountedQty: &q,
	})
	require.NoError(t, err)

	_, err = env.entryUC.Finalize(context.Background(), out.ShareToken)
	assert.ErrorIs(t, err, domain.ErrCountingIncomplete)
}

func TestFinalize_CompletaYNotificaAlCreador(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)
	env.countAll(t, out.ShareToken, map[string]decimal.Decimal{
		"prod-a": decimal.NewFromInt(7),
		"prod-b": decimal.NewFromInt(5),
	})

	resp, err := env.entryUC.Finalize(context.Background(), out.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, entity.CountingStatusCompleted, resp.Status)
	assert.NotNil(t, resp.CompletedAt)
	assert.Equal(t, 100.0, resp.CompletionPercent)

	notifs, _ := env.notifRepo.ListByUser(testUserID, 10, 0)
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotificationCountingCompleted, notifs[0].Kind)
}

func TestFinalize_SegundaVezEsConflicto(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)
	env.countAll(t, out.ShareToken, map[string]decimal.Decimal{
		"prod-a": decimal.NewFromInt(10),
		"prod-b": decimal.NewFromInt(5),
	})

	_, err := env.entryUC.Finalize(context.Background(), out.ShareToken)
	require.NoError(t, err)

	// Otro dispositivo con la vista vieja intenta finalizar de nuevo: el
	// UPDATE condicional no cambia filas y se reporta conflicto.
	_, err = env.entryUC.Finalize(context.Background(), out.ShareToken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── Listado y movimientos ─────────────────────────────────────────────────────

func TestGetByID_OtraEmpresaEsNotFound(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	_, err := env.countingUC.GetByID(context.Background(), "otra-empresa", out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovements_VaciosAntesDeAprobar(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)

	movs, err := env.countingUC.Movements(context.Background(), testCompanyID, out.ID)
	require.NoError(t, err)
	assert.Empty(t, movs, "sin aprobación no hay movimientos publicados")
}
