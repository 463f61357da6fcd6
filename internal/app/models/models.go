package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleTeacher Role = "teacher"
)

// AllRoles lists every role the store accepts, most privileged first
var AllRoles = []Role{RoleAdmin, RoleStaff, RoleTeacher}

// IsValid reports whether r is one of the enumerated roles
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalizes s and checks it against the enumeration
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UnmarshalJSON trims and lowercases the incoming role so request binding sees
// the canonical value; membership is checked by the caller.
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Role(strings.ToLower(strings.TrimSpace(s)))
	return nil
}
