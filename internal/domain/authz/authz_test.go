package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudbpo/conteo-api/internal/domain/authz"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

// La matriz de permisos vive en un solo lugar; los handlers nunca comparan
// roles directamente. Estos tests fijan las decisiones clave de la matriz.
func TestCan_MatrizDePermisos(t *testing.T) {
	casos := []struct {
		role   string
		action authz.Action
		ok     bool
	}{
		// Aprobar es de admin y supervisor; el contador captura pero no aprueba.
		{entity.RoleAdmin, authz.ActionCountingApprove, true},
		{entity.RoleSupervisor, authz.ActionCountingApprove, true},
		{entity.RoleContador, authz.ActionCountingApprove, false},

		{entity.RoleAdmin, authz.ActionCountingCreate, true},
		{entity.RoleSupervisor, authz.ActionCountingCreate, true},
		{entity.RoleContador, authz.ActionCountingCreate, false},

		{entity.RoleContador, authz.ActionCountingView, true},
		{entity.RoleContador, authz.ActionProductView, true},
		{entity.RoleContador, authz.ActionProductManage, false},
		{entity.RoleContador, authz.ActionMovementView, false},

		// Gestión de usuarios y empresas es exclusiva del admin.
		{entity.RoleAdmin, authz.ActionUserManage, true},
		{entity.RoleSupervisor, authz.ActionUserManage, false},
		{entity.RoleAdmin, authz.ActionCompanyManage, true},
		{entity.RoleSupervisor, authz.ActionCompanyManage, false},

		// Mensajería interna abierta a todos los roles.
		{entity.RoleContador, authz.ActionMessageSend, true},
	}

	for _, tc := range casos {
		assert.Equal(t, tc.ok, authz.Can(tc.role, tc.action),
			"rol %s, acción %s", tc.role, tc.action)
	}
}

func TestCan_RolDesconocidoNoPuedeNada(t *testing.T) {
	assert.False(t, authz.Can("", authz.ActionCountingView))
	assert.False(t, authz.Can("invitado", authz.ActionCountingView))
}
