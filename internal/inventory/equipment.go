package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/honlab/equiptrack/internal/imaging"
	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/policy"
)

// MaxCreateBatch is the largest number of items one Create call accepts.
const MaxCreateBatch = 100

var dateImportedPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)

// NewEquipment holds the fields shared by every item of a Create batch.
type NewEquipment struct {
	Model         string `json:"model"`
	EquipmentType string `json:"equipment_type"`
	DateImported  string `json:"date_imported"`
}

// EditFields lists the fields Edit may change. Nil fields are left alone.
type EditFields struct {
	Model         *string                `json:"model"`
	EquipmentType *string                `json:"equipment_type"`
	SerialNumber  *string                `json:"serial_number"`
	DateImported  *string                `json:"date_imported"`
	Status        *model.EquipmentStatus `json:"status"`
}

func checkCommon(modelName, equipmentType, dateImported string) []Issue {
	var issues []Issue
	if modelName == "" {
		issues = append(issues, Issue{Index: -1, Field: "model", Message: "required"})
	}
	if equipmentType == "" {
		issues = append(issues, Issue{Index: -1, Field: "equipment_type", Message: "required"})
	}
	switch {
	case dateImported == "":
		issues = append(issues, Issue{Index: -1, Field: "date_imported", Message: "required"})
	case !dateImportedPattern.MatchString(dateImported):
		issues = append(issues, Issue{Index: -1, Field: "date_imported", Message: "must be MM/YYYY"})
	}
	return issues
}

// Create adds one item per serial number, all in the warehouse with status
// stored. Every serial must be new and appear once in the batch; otherwise
// nothing is created and each offending index is reported.
func (s *Service) Create(ctx context.Context, common NewEquipment, serials []string) ([]model.Equipment, error) {
	common.Model = strings.TrimSpace(common.Model)
	common.EquipmentType = strings.TrimSpace(common.EquipmentType)
	common.DateImported = strings.TrimSpace(common.DateImported)

	issues := checkCommon(common.Model, common.EquipmentType, common.DateImported)
	switch {
	case len(serials) == 0:
		issues = append(issues, Issue{Index: -1, Field: "serial_numbers", Message: "at least one serial number required"})
	case len(serials) > MaxCreateBatch:
		issues = append(issues, Issue{Index: -1, Field: "serial_numbers", Message: "at most 100 items per batch"})
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	existing, err := s.store.FetchAllEquipment(ctx)
	if err != nil {
		return nil, storeErr("fetching equipment", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e.SerialNumber] = true
	}

	cleaned := make([]string, len(serials))
	count := make(map[string]int, len(serials))
	for i, sn := range serials {
		cleaned[i] = strings.TrimSpace(sn)
		count[cleaned[i]]++
	}
	for i, sn := range cleaned {
		switch {
		case sn == "":
			issues = append(issues, Issue{Index: i, Field: "serial_number", Message: "required"})
		case taken[sn]:
			issues = append(issues, Issue{Index: i, Field: "serial_number", Message: "serial number " + sn + " already exists"})
		case count[sn] > 1:
			issues = append(issues, Issue{Index: i, Field: "serial_number", Message: "serial number " + sn + " appears more than once in the batch"})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	wh := s.catalog.Warehouse()
	now := s.now().UTC()
	rows := make([]model.Equipment, len(cleaned))
	for i, sn := range cleaned {
		rows[i] = model.Equipment{
			ID:            uuid.NewString(),
			Model:         common.Model,
			EquipmentType: common.EquipmentType,
			SerialNumber:  sn,
			DateImported:  common.DateImported,
			Status:        model.StatusStored,
			RoomID:        wh.ID,
			DateAdded:     now,
			LastUpdated:   now,
		}
	}

	var created []model.Equipment
	err = s.store.InTx(ctx, func(tx Store) error {
		var err error
		created, err = tx.InsertEquipment(ctx, rows)
		return err
	})
	if err != nil {
		return nil, storeErr("creating equipment", err)
	}

	s.metrics.ObserveCreated(len(created))
	slog.Info("equipment created", "count", len(created), "model", common.Model, "room", wh.Name)
	return created, nil
}

// Edit changes the descriptive fields or the status of an active item.
func (s *Service) Edit(ctx context.Context, id string, fields EditFields) (*model.Equipment, error) {
	var updated *model.Equipment
	err := s.store.InTx(ctx, func(tx Store) error {
		e, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if e.Deleted() {
			return invalid("id", "item is deleted")
		}

		next := *e
		if fields.Model != nil {
			next.Model = strings.TrimSpace(*fields.Model)
		}
		if fields.EquipmentType != nil {
			next.EquipmentType = strings.TrimSpace(*fields.EquipmentType)
		}
		if fields.DateImported != nil {
			next.DateImported = strings.TrimSpace(*fields.DateImported)
		}
		if fields.SerialNumber != nil {
			next.SerialNumber = strings.TrimSpace(*fields.SerialNumber)
		}
		if fields.Status != nil {
			next.Status = *fields.Status
		}

		issues := checkCommon(next.Model, next.EquipmentType, next.DateImported)
		if next.SerialNumber == "" {
			issues = append(issues, Issue{Index: -1, Field: "serial_number", Message: "required"})
		} else if next.SerialNumber != e.SerialNumber {
			all, err := tx.FetchAllEquipment(ctx)
			if err != nil {
				return storeErr("fetching equipment", err)
			}
			for _, other := range all {
				if other.ID != e.ID && other.SerialNumber == next.SerialNumber {
					issues = append(issues, Issue{Index: -1, Field: "serial_number", Message: "serial number " + next.SerialNumber + " already exists"})
					break
				}
			}
		}
		if bt := s.buildingType(e); !policy.ValidStatus(next.Status, bt) {
			issues = append(issues, Issue{Index: -1, Field: "status", Message: "status " + string(next.Status) + " is not valid in a " + string(bt)})
		}
		if len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}

		next.LastUpdated = s.now().UTC()
		updated, err = tx.UpdateEquipment(ctx, next)
		if err != nil {
			return err
		}
		if updated == nil {
			return &NotFoundError{Kind: "equipment", ID: id}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("editing equipment", err)
	}

	slog.Info("equipment edited", "id", id, "serial", updated.SerialNumber)
	return updated, nil
}

// Get returns one item, including soft-deleted ones.
func (s *Service) Get(ctx context.Context, id string) (*model.Equipment, error) {
	return s.load(ctx, s.store, id)
}

// List returns items matching f. Soft-deleted items are excluded unless
// f.Deleted says otherwise.
func (s *Service) List(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	if f.Status != "" && !policy.KnownStatus(f.Status) {
		return nil, invalid("status", "unknown status %q", f.Status)
	}
	if f.BuildingType != "" && !f.BuildingType.Valid() {
		return nil, invalid("type", "unknown building type %q", f.BuildingType)
	}
	if f.Deleted == nil {
		active := false
		f.Deleted = &active
	}
	f.Query = strings.TrimSpace(f.Query)

	items, err := s.store.ListEquipment(ctx, f)
	if err != nil {
		return nil, storeErr("listing equipment", err)
	}
	return items, nil
}

// ListSoftDeleted returns items waiting to be purged.
func (s *Service) ListSoftDeleted(ctx context.Context) ([]model.Equipment, error) {
	deleted := true
	items, err := s.store.ListEquipment(ctx, model.EquipmentFilter{Deleted: &deleted})
	if err != nil {
		return nil, storeErr("listing deleted equipment", err)
	}
	return items, nil
}

// Stats counts active items per building type. Every building type is
// present in the result.
func (s *Service) Stats(ctx context.Context) (map[model.BuildingType]int, error) {
	counts, err := s.store.CountByBuildingType(ctx)
	if err != nil {
		return nil, storeErr("counting equipment", err)
	}
	out := map[model.BuildingType]int{
		model.BuildingWarehouse: 0,
		model.BuildingClassroom: 0,
		model.BuildingOffice:    0,
	}
	for bt, n := range counts {
		out[bt] = n
	}
	return out, nil
}

// SetImage stores a normalised photo of an active item.
func (s *Service) SetImage(ctx context.Context, id string, r io.Reader) error {
	e, err := s.load(ctx, s.store, id)
	if err != nil {
		return err
	}
	if e.Deleted() {
		return invalid("id", "item is deleted")
	}

	photo, err := imaging.Normalize(r)
	if errors.Is(err, imaging.ErrUnsupported) {
		return invalid("image", "%v", err)
	}
	if err != nil {
		return &StoreError{Op: "processing image", Err: err}
	}

	if err := s.store.SetEquipmentImage(ctx, id, photo.Data, imaging.MIME); err != nil {
		return storeErr("saving image", err)
	}
	slog.Info("equipment image set", "id", id, "width", photo.Width, "height", photo.Height)
	return nil
}

// Image returns the stored photo of an item and its MIME type.
func (s *Service) Image(ctx context.Context, id string) ([]byte, string, error) {
	if _, err := s.load(ctx, s.store, id); err != nil {
		return nil, "", err
	}
	data, mime, err := s.store.GetEquipmentImage(ctx, id)
	if err != nil {
		return nil, "", storeErr("loading image", err)
	}
	if data == nil {
		return nil, "", &NotFoundError{Kind: "image", ID: id}
	}
	return data, mime, nil
}
