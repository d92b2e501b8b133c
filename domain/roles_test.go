package domain

import "testing"

func TestRoleAllowed(t *testing.T) {
	tests := []struct {
		name     string
		subject  RoleName
		required []RoleName
		want     bool
	}{
		{"empty required set allows anyone", RoleUser, nil, true},
		{"admin allowed on admin route", RoleAdmin, []RoleName{RoleAdmin}, true},
		{"user denied on admin route", RoleUser, []RoleName{RoleAdmin}, false},
		{"user allowed when listed", RoleUser, []RoleName{RoleAdmin, RoleUser}, true},
		{"unknown role denied", RoleName("OPERATOR"), []RoleName{RoleAdmin, RoleUser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleAllowed(tt.subject, tt.required...); got != tt.want {
				t.Errorf("RoleAllowed(%q, %v) = %v, want %v", tt.subject, tt.required, got, tt.want)
			}
		})
	}
}

func TestRoleNameValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Error("built-in roles must be valid")
	}
	if RoleName("guest").Valid() {
		t.Error("free-form role names must not validate")
	}
}
