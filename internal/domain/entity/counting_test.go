package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

func qty(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// ── Difference ────────────────────────────────────────────────────────────────

// La diferencia siempre se deriva de counted − expected; nunca se almacena.
func TestDifference_ContadoMenosEsperado(t *testing.T) {
	item := entity.CountingItem{
		ExpectedQty: decimal.NewFromInt(10),
		CountedQty:  qty(7),
	}

	diff, counted := item.Difference()
	assert.True(t, counted)
	assert.True(t, diff.Equal(decimal.NewFromInt(-3)),
		"esperado 10 y contado 7 debe dar diferencia -3, obtuvo %s", diff)
}

func TestDifference_SinCapturaNoHayDiferencia(t *testing.T) {
	item := entity.CountingItem{ExpectedQty: decimal.NewFromInt(10)}

	diff, counted := item.Difference()
	assert.False(t, counted, "un ítem sin cantidad capturada no tiene diferencia")
	assert.True(t, diff.IsZero())
}

// Contar exactamente lo esperado es una captura válida con diferencia cero.
func TestDifference_CeroEsCapturaValida(t *testing.T) {
	item := entity.CountingItem{
		ExpectedQty: decimal.NewFromInt(5),
		CountedQty:  qty(5),
	}

	diff, counted := item.Difference()
	assert.True(t, counted)
	assert.True(t, diff.IsZero())
}

// ── CompletionPercent ─────────────────────────────────────────────────────────

func TestCompletionPercent_DosDeTresItems(t *testing.T) {
	c := entity.Counting{Items: []entity.CountingItem{
		{CountedQty: qty(1)},
		{CountedQty: qty(2)},
		{},
	}}

	assert.Equal(t, 66.7, c.CompletionPercent(),
		"2 de 3 ítems se redondea a un decimal: 66.7")
}

func TestCompletionPercent_SinItemsEsCero(t *testing.T) {
	c := entity.Counting{}
	assert.Equal(t, 0.0, c.CompletionPercent())
}

func TestCompletionPercent_TodoContadoEsCien(t *testing.T) {
	c := entity.Counting{Items: []entity.CountingItem{
		{CountedQty: qty(1)},
		{CountedQty: qty(0)},
	}}
	assert.Equal(t, 100.0, c.CompletionPercent(),
		"contar cero unidades también cuenta como ítem capturado")
}

// ── AllCounted ────────────────────────────────────────────────────────────────

func TestAllCounted_RequiereTodosLosItems(t *testing.T) {
	c := entity.Counting{Items: []entity.CountingItem{
		{CountedQty: qty(1)},
		{},
	}}
	assert.False(t, c.AllCounted())

	c.Items[1].CountedQty = qty(0)
	assert.True(t, c.AllCounted())
}

func TestAllCounted_SinItemsNoEstaCompleto(t *testing.T) {
	c := entity.Counting{}
	assert.False(t, c.AllCounted(), "un conteo vacío nunca se puede finalizar")
}

// ── Transiciones de estado ────────────────────────────────────────────────────

// El ciclo de vida solo avanza; ningún camino de la API retrocede un estado.
func TestCanTransition_SoloHaciaAdelante(t *testing.T) {
	casos := []struct {
		from, to string
		ok       bool
	}{
		{entity.CountingStatusDraft, entity.CountingStatusInProgress, true},
		{entity.CountingStatusPending, entity.CountingStatusInProgress, true},
		{entity.CountingStatusPending, entity.CountingStatusCompleted, true},
		{entity.CountingStatusInProgress, entity.CountingStatusCompleted, true},
		{entity.CountingStatusCompleted, entity.CountingStatusApproved, true},

		{entity.CountingStatusApproved, entity.CountingStatusCompleted, false},
		{entity.CountingStatusCompleted, entity.CountingStatusInProgress, false},
		{entity.CountingStatusInProgress, entity.CountingStatusPending, false},
		{entity.CountingStatusDraft, entity.CountingStatusPending, false}, // mismo rango
		{entity.CountingStatusApproved, entity.CountingStatusApproved, false},
		{"desconocido", entity.CountingStatusApproved, false},
	}

	for _, tc := range casos {
		assert.Equal(t, tc.ok, entity.CanTransition(tc.from, tc.to),
			"transición %s → %s", tc.from, tc.to)
	}
}

func TestAcceptsEntry_SoloAprobadoEsSoloLectura(t *testing.T) {
	for _, status := range []string{
		entity.CountingStatusDraft,
		entity.CountingStatusPending,
		entity.CountingStatusInProgress,
		entity.CountingStatusCompleted,
	} {
		c := entity.Counting{Status: status}
		assert.True(t, c.AcceptsEntry(), "estado %s debe admitir captura", status)
	}

	c := entity.Counting{Status: entity.CountingStatusApproved}
	assert.False(t, c.AcceptsEntry())
	assert.True(t, c.IsApproved())
}
