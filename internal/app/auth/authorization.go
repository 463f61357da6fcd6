package auth

import (
	"fmt"
	"sort"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

// Capability names an action guarded by role
type Capability string

const (
	CapStudentsRead    Capability = "students:read"
	CapStudentsCreate  Capability = "students:create"
	CapStudentsUpdate  Capability = "students:update"
	CapStudentsDelete  Capability = "students:delete"
	CapSessionsRead    Capability = "sessions:read"
	CapSessionsWrite   Capability = "sessions:write"
	CapAnalyticsRead   Capability = "analytics:read"
	CapUsersManage     Capability = "users:manage"
	CapCreatePrivilege Capability = "accounts:create_privileged"
)

var readOnly = []Capability{CapStudentsRead, CapSessionsRead, CapAnalyticsRead}

// roleCapabilities is the single policy table; anything not listed is denied
var roleCapabilities = map[models.Role][]Capability{
	models.RoleAdmin: append([]Capability{
		CapStudentsCreate, CapStudentsUpdate, CapStudentsDelete,
		CapSessionsWrite, CapUsersManage, CapCreatePrivilege,
	}, readOnly...),
	models.RoleStaff: append([]Capability{
		CapStudentsCreate, CapSessionsWrite,
	}, readOnly...),
	models.RoleTeacher: readOnly,
}

// Can reports whether role holds capability
func Can(role models.Role, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Authorize returns a permission error when role lacks capability
func Authorize(role models.Role, capability Capability) error {
	if Can(role, capability) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("role %q cannot perform %s", role, capability))
}

// RolesFor lists the roles holding capability, sorted by name
func RolesFor(capability Capability) []models.Role {
	var roles []models.Role
	for role := range roleCapabilities {
		if Can(role, capability) {
			roles = append(roles, role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
