// Package authz centraliza la autorización por rol. Toda decisión de
// permiso pasa por Can(role, action); los handlers no reimplementan
// comprobaciones de rol por página.
package authz

import "github.com/cloudbpo/conteo-api/internal/domain/entity"

// Action identifica una operación autorizable de la API.
type Action string

const (
	ActionCountingCreate  Action = "counting.create"
	ActionCountingView    Action = "counting.view"
	ActionCountingApprove Action = "counting.approve"
	ActionProductManage   Action = "product.manage"
	ActionProductView     Action = "product.view"
	ActionSectorManage    Action = "sector.manage"
	ActionUserManage      Action = "user.manage"
	ActionCompanyManage   Action = "company.manage"
	ActionMessageSend     Action = "message.send"
	ActionMovementView    Action = "movement.view"
)

// permissions define qué roles pueden ejecutar cada acción. Un rol ausente
// para una acción implica denegación.
var permissions = map[Action][]string{
	ActionCountingCreate:  {entity.RoleAdmin, entity.RoleSupervisor},
	ActionCountingView:    {entity.RoleAdmin, entity.RoleSupervisor, entity.RoleContador},
	ActionCountingApprove: {entity.RoleAdmin, entity.RoleSupervisor},
	ActionProductManage:   {entity.RoleAdmin, entity.RoleSupervisor},
	ActionProductView:     {entity.RoleAdmin, entity.RoleSupervisor, entity.RoleContador},
	ActionSectorManage:    {entity.RoleAdmin, entity.RoleSupervisor},
	ActionUserManage:      {entity.RoleAdmin},
	ActionCompanyManage:   {entity.RoleAdmin},
	ActionMessageSend:     {entity.RoleAdmin, entity.RoleSupervisor, entity.RoleContador},
	ActionMovementView:    {entity.RoleAdmin, entity.RoleSupervisor},
}

// Can devuelve true si el rol puede ejecutar la acción.
func Can(role string, action Action) bool {
	for _, allowed := range permissions[action] {
		if role == allowed {
			return true
		}
	}
	return false
}
