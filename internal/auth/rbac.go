package auth

import (
	"log/slog"
	"net/http"
)

// Capability names an action a role may perform. Every role gate in the
// application goes through the matrix below; routes and services never
// compare role strings directly.
type Capability string

const (
	CapManageUsers           Capability = "users:manage"
	CapViewUsers             Capability = "users:view"
	CapManageProjects        Capability = "projects:manage"
	CapManageSites           Capability = "sites:manage"
	CapAssignTasks           Capability = "tasks:assign"
	CapMarkAttendance        Capability = "attendance:mark"
	CapApproveLeave          Capability = "leave:approve"
	CapManageMaterials       Capability = "materials:manage"
	CapApproveRequisitions   Capability = "requisitions:approve"
	CapManageEquipment       Capability = "equipment:manage"
	CapManageDocuments       Capability = "documents:manage"
	CapViewAttendanceSummary Capability = "reports:attendance"
	CapViewAuditLogs         Capability = "audit:view"
)

var capabilityMatrix = map[Capability][]string{
	CapManageUsers:           {RoleAdmin},
	CapViewUsers:             {RoleAdmin, RoleManager},
	CapManageProjects:        {RoleAdmin, RoleManager},
	CapManageSites:           {RoleAdmin, RoleManager, RoleSupervisor},
	CapAssignTasks:           {RoleAdmin, RoleManager, RoleSupervisor},
	CapMarkAttendance:        {RoleAdmin, RoleManager, RoleSupervisor},
	CapApproveLeave:          {RoleAdmin, RoleManager},
	CapManageMaterials:       {RoleAdmin, RoleManager},
	CapApproveRequisitions:   {RoleAdmin, RoleManager},
	CapManageEquipment:       {RoleAdmin, RoleManager},
	CapManageDocuments:       {RoleAdmin, RoleManager, RoleSupervisor},
	CapViewAttendanceSummary: {RoleAdmin, RoleManager, RoleSupervisor},
	CapViewAuditLogs:         {RoleAdmin},
}

// Can reports whether a role holds a capability.
func Can(role string, capability Capability) bool {
	for _, allowed := range capabilityMatrix[capability] {
		if allowed == role {
			return true
		}
	}
	return false
}

// IsElevated reports whether the role sits above worker in the hierarchy.
// Used for actor-or-elevated gates where the resource owner may also act.
func IsElevated(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleSupervisor
}

type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// Require builds a middleware that rejects requests whose authenticated
// account lacks the capability.
func (ra *RBACAuthorization) Require(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := UserFromContext(r.Context())
			if !ok || account == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !Can(account.Role, capability) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", account.ID,
					"role", account.Role,
					"capability", capability)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
