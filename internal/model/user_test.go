package model

import "testing"

func TestRoles(t *testing.T) {
	tests := []struct {
		role, minimum string
		valid, atLeast bool
	}{
		{RoleAdmin, RoleUser, true, true},
		{RoleAdmin, RoleAdmin, true, true},
		{RoleManager, RoleUser, true, true},
		{RoleManager, RoleManager, true, true},
		{RoleManager, RoleAdmin, true, false},
		{RoleUser, RoleManager, true, false},
		{"owner", RoleUser, false, false},
		{RoleAdmin, "owner", true, false},
		{"", "", false, false},
	}
	for _, tt := range tests {
		if got := ValidRole(tt.role); got != tt.valid {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.valid)
		}
		if got := RoleAtLeast(tt.role, tt.minimum); got != tt.atLeast {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.atLeast)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	for pw, wantErr := range map[string]bool{"": true, "1234567": true, "12345678": false, "correct horse": false} {
		if err := ValidatePassword(pw); (err != nil) != wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", pw, err, wantErr)
		}
	}
}

func TestEquipmentDeleted(t *testing.T) {
	e := Equipment{Status: StatusStored}
	if e.Deleted() {
		t.Error("expected fresh equipment not to be deleted")
	}
	e.DeleteReason = DeleteReasonBroken
	if !e.Deleted() {
		t.Error("expected equipment with a delete reason to be deleted")
	}
}

func TestDeleteReasonValid(t *testing.T) {
	for _, r := range []DeleteReason{DeleteReasonBroken, DeleteReasonObsolete, DeleteReasonOther} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if DeleteReason("lost").Valid() {
		t.Error("expected unknown reason to be invalid")
	}
}
