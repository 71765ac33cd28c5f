package counting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

const testApproverID = "00000000-0000-0000-0000-0000000000a9"

// completedCounting deja un conteo completado listo para aprobar:
// prod-a esperado 10 / contado 7, prod-b esperado 5 / contado 5.
func completedCounting(t *testing.T, env *testEnv) string {
	t.Helper()
	out := env.createCounting(t)
	env.countAll(t, out.ShareToken, map[string]decimal.Decimal{
		"prod-a": decimal.NewFromInt(7),
		"prod-b": decimal.NewFromInt(5),
	})
	_, err := env.entryUC.Finalize(context.Background(), out.ShareToken)
	require.NoError(t, err)
	return out.ID
}

func newApproveUC(env *testEnv) *appcounting.ApproveUseCase {
	runner := &memTxRunner{
		countingRepo:     env.countingRepo,
		productRepo:      env.productRepo,
		movementRepo:     env.movementRepo,
		notificationRepo: env.notifRepo,
	}
	return appcounting.NewApproveUseCase(runner, env.countingRepo)
}

// ── Aprobación ────────────────────────────────────────────────────────────────

// La aprobación publica un movimiento por ítem con diferencia: quantity_before
// es la foto esperada, quantity_after lo contado, y el stock del producto se
// fija al valor contado. Los ítems sin diferencia no generan movimiento.
func TestApprove_PublicaMovimientosYFijaStock(t *testing.T) {
	env := newTestEnv(t)
	countingID := completedCounting(t, env)
	uc := newApproveUC(env)

	resp, err := uc.Approve(context.Background(), testCompanyID, testApproverID, countingID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountingStatusApproved, resp.Status)
	assert.Equal(t, testApproverID, resp.ApprovedBy)

	movs, _ := env.movementRepo.ListByReference(countingID)
	require.Len(t, movs, 1, "solo prod-a tiene diferencia; prod-b contó exacto")

	mov := movs[0]
	assert.Equal(t, "prod-a", mov.ProductID)
	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.True(t, mov.QuantityBefore.Equal(decimal.NewFromInt(10)),
		"quantity_before es el esperado congelado al crear el conteo")
	assert.True(t, mov.QuantityAfter.Equal(decimal.NewFromInt(7)))
	assert.True(t, mov.Delta().Equal(decimal.NewFromInt(-3)))

	prodA, _ := env.productRepo.GetByID("prod-a")
	assert.True(t, prodA.CurrentStock.Equal(decimal.NewFromInt(7)),
		"el stock del producto queda en el valor contado")
	prodB, _ := env.productRepo.GetByID("prod-b")
	assert.True(t, prodB.CurrentStock.Equal(decimal.NewFromInt(5)),
		"sin diferencia el stock no se toca")
}

// Doble submit desde dos pestañas: la segunda aprobación no duplica movimientos.
func TestApprove_Idempotente(t *testing.T) {
	env := newTestEnv(t)
	countingID := completedCounting(t, env)
	uc := newApproveUC(env)

	_, err := uc.Approve(context.Background(), testCompanyID, testApproverID, countingID)
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), testCompanyID, testApproverID, countingID)
	assert.ErrorIs(t, err, domain.ErrCountingApproved)

	movs, _ := env.movementRepo.ListByReference(countingID)
	assert.Len(t, movs, 1, "exactamente un juego de movimientos por conteo")
}

func TestApprove_ConteoSinCompletarNoSePuedeAprobar(t *testing.T) {
	env := newTestEnv(t)
	out := env.createCounting(t)
	uc := newApproveUC(env)

	_, err := uc.Approve(context.Background(), testCompanyID, testApproverID, out.ID)
	assert.ErrorIs(t, err, domain.ErrCountingNotReady)

	movs, _ := env.movementRepo.ListByReference(out.ID)
	assert.Empty(t, movs)
}

func TestApprove_OtraEmpresaEsNotFound(t *testing.T) {
	env := newTestEnv(t)
	countingID := completedCounting(t, env)
	uc := newApproveUC(env)

	_, err := uc.Approve(context.Background(), "otra-empresa", testApproverID, countingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El creador recibe aviso de la aprobación; quien aprueba no se auto-notifica.
func TestApprove_NotificaAlCreadorYNoAlAprobador(t *testing.T) {
	env := newTestEnv(t)
	countingID := completedCounting(t, env)
	uc := newApproveUC(env)

	_, err := uc.Approve(context.Background(), testCompanyID, testApproverID, countingID)
	require.NoError(t, err)

	delCreador, _ := env.notifRepo.ListByUser(testUserID, 10, 0)
	var aprobadas int
	for _, n := range delCreador {
		if n.Kind == entity.NotificationCountingApproved {
			aprobadas++
		}
	}
	assert.Equal(t, 1, aprobadas)

	delAprobador, _ := env.notifRepo.ListByUser(testApproverID, 10, 0)
	assert.Empty(t, delAprobador)
}

// Si el creador aprueba su propio conteo, no queda nadie a quien avisar.
func TestApprove_CreadorAprobandoNoSeNotifica(t *testing.T) {
	env := newTestEnv(t)
	countingID := completedCounting(t, env)
	uc := newApproveUC(env)

	_, err := uc.Approve(context.Background(), testCompanyID, testUserID, countingID)
	require.NoError(t, err)

	notifs, _ := env.notifRepo.ListByUser(testUserID, 10, 0)
	for _, n := range notifs {
		assert.NotEqual(t, entity.NotificationCountingApproved, n.Kind,
			"el aprobador no se auto-notifica")
	}
}
