package auth

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role models.Role
		cap  Capability
		want bool
	}{
		{models.RoleAdmin, CapStudentsDelete, true},
		{models.RoleAdmin, CapUsersManage, true},
		{models.RoleStaff, CapStudentsCreate, true},
		{models.RoleStaff, CapStudentsUpdate, false},
		{models.RoleStaff, CapStudentsDelete, false},
		{models.RoleStaff, CapSessionsWrite, true},
		{models.RoleStaff, CapUsersManage, false},
		{models.RoleTeacher, CapStudentsRead, true},
		{models.RoleTeacher, CapAnalyticsRead, true},
		{models.RoleTeacher, CapSessionsWrite, false},
		{models.RoleTeacher, CapStudentsCreate, false},
		{models.Role("janitor"), CapStudentsRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			qt.Assert(t, Can(tt.role, tt.cap), qt.Equals, tt.want)
		})
	}
}

func TestAuthorize(t *testing.T) {
	c := qt.New(t)
	c.Assert(Authorize(models.RoleAdmin, CapCreatePrivilege), qt.IsNil)

	err := Authorize(models.RoleTeacher, CapSessionsWrite)
	c.Assert(err, qt.ErrorIs, apperrors.ErrPermissionDenied)
	c.Assert(err, qt.ErrorMatches, `role "teacher" cannot perform sessions:write`)
}

func TestRolesFor(t *testing.T) {
	c := qt.New(t)
	c.Assert(RolesFor(CapStudentsCreate), qt.DeepEquals, []models.Role{models.RoleAdmin, models.RoleStaff})
	c.Assert(RolesFor(CapStudentsDelete), qt.DeepEquals, []models.Role{models.RoleAdmin})
	c.Assert(RolesFor(CapStudentsRead), qt.DeepEquals, []models.Role{models.RoleAdmin, models.RoleStaff, models.RoleTeacher})
}
