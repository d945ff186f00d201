package policy

import (
	"testing"

	"github.com/honlab/equiptrack/internal/model"
)

const (
	warehouse = model.BuildingWarehouse
	classroom = model.BuildingClassroom
	office    = model.BuildingOffice
)

func TestStatusOnTransfer(t *testing.T) {
	tests := []struct {
		current  model.EquipmentStatus
		from, to model.BuildingType
		want     model.EquipmentStatus
	}{
		{model.StatusStored, warehouse, classroom, model.StatusInUse},
		{model.StatusMaintenance, warehouse, office, model.StatusInUse},
		{model.StatusReplaced, warehouse, classroom, model.StatusReplaced},
		{model.StatusInUse, classroom, warehouse, model.StatusStored},
		{model.StatusNeedReplacement, office, warehouse, model.StatusReplaced},
		{model.StatusInUse, classroom, office, model.StatusInUse},
		{model.StatusNeedReplacement, classroom, classroom, model.StatusNeedReplacement},
		{model.StatusMaintenance, warehouse, warehouse, model.StatusMaintenance},
	}

	for _, tt := range tests {
		got := StatusOnTransfer(tt.current, tt.from, tt.to)
		if got != tt.want {
			t.Errorf("StatusOnTransfer(%q, %q, %q) = %q, want %q", tt.current, tt.from, tt.to, got, tt.want)
		}
		// Same inputs, same answer.
		if again := StatusOnTransfer(tt.current, tt.from, tt.to); again != got {
			t.Errorf("StatusOnTransfer(%q, %q, %q) not deterministic: %q then %q", tt.current, tt.from, tt.to, got, again)
		}
	}
}

func TestRoundTripIsNotSymmetric(t *testing.T) {
	out := StatusOnTransfer(model.StatusStored, warehouse, classroom)
	if back := StatusOnTransfer(out, classroom, warehouse); back != model.StatusStored {
		t.Errorf("stored round trip ended at %q", back)
	}

	out = StatusOnTransfer(model.StatusMaintenance, warehouse, classroom)
	back := StatusOnTransfer(out, classroom, warehouse)
	if back == model.StatusMaintenance {
		t.Error("maintenance should not be restored by a round trip")
	}
	if back != model.StatusStored {
		t.Errorf("maintenance round trip ended at %q, want stored", back)
	}
}

func TestTransferredStatusIsValidAtDestination(t *testing.T) {
	types := []model.BuildingType{warehouse, classroom, office}
	for _, from := range types {
		for _, status := range EligibleStatuses(from) {
			if !CanTransfer(status, from) {
				continue
			}
			for _, to := range types {
				got := StatusOnTransfer(status, from, to)
				if !ValidStatus(got, to) {
					t.Errorf("%q moved %s -> %s became %q, not valid in %s", status, from, to, got, to)
				}
			}
		}
	}
}

func TestCanTransfer(t *testing.T) {
	tests := []struct {
		status model.EquipmentStatus
		from   model.BuildingType
		want   bool
	}{
		{model.StatusStored, warehouse, true},
		{model.StatusMaintenance, warehouse, true},
		{model.StatusReplaced, warehouse, false},
		{model.StatusInUse, classroom, true},
		{model.StatusNeedReplacement, office, true},
	}

	for _, tt := range tests {
		if got := CanTransfer(tt.status, tt.from); got != tt.want {
			t.Errorf("CanTransfer(%q, %q) = %v, want %v", tt.status, tt.from, got, tt.want)
		}
	}
}

func TestEligibleStatuses(t *testing.T) {
	if got := EligibleStatuses(warehouse); len(got) != 3 {
		t.Errorf("warehouse vocabulary = %v", got)
	}
	if got := EligibleStatuses(office); len(got) != 2 {
		t.Errorf("office vocabulary = %v", got)
	}
	if got := EligibleStatuses("gym"); got != nil {
		t.Errorf("unknown building type vocabulary = %v, want nil", got)
	}

	// Callers must not be able to mutate the shared vocabulary.
	EligibleStatuses(warehouse)[0] = "broken"
	if !ValidStatus(model.StatusStored, warehouse) {
		t.Error("vocabulary was mutated through the returned slice")
	}

	if ValidStatus(model.StatusInUse, warehouse) {
		t.Error("in-use must not be valid in the warehouse")
	}
	if ValidStatus(model.StatusStored, classroom) {
		t.Error("stored must not be valid in a classroom")
	}
	if !KnownStatus(model.StatusNeedReplacement) || KnownStatus("lost") {
		t.Error("KnownStatus mismatch")
	}
}
