package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/policy"
	"github.com/honlab/equiptrack/internal/retention"
)

// DeleteBatchResult reports which items a batch delete acted on.
type DeleteBatchResult struct {
	Deleted []model.Equipment `json:"deleted"`
	// Skipped lists ids that were not deleted: unknown, already deleted, or
	// outside the warehouse.
	Skipped []string `json:"skipped"`
}

// PurgeResult reports a purge run. On failure Purged still counts the items
// removed before the error and Remaining those that were due but not removed.
type PurgeResult struct {
	Purged    int `json:"purged"`
	Remaining int `json:"remaining"`
}

func checkDeleteReason(reason model.DeleteReason, note string) error {
	if !reason.Valid() {
		return invalid("reason", "must be one of broken, obsolete, other")
	}
	if reason == model.DeleteReasonOther && note == "" {
		return invalid("note", "required when reason is other")
	}
	return nil
}

// Delete soft-deletes an item in the warehouse. Items elsewhere must be
// transferred back first.
func (s *Service) Delete(ctx context.Context, id string, reason model.DeleteReason, note string) (*model.Equipment, error) {
	note = strings.TrimSpace(note)
	if err := checkDeleteReason(reason, note); err != nil {
		return nil, err
	}

	var deleted *model.Equipment
	err := s.store.InTx(ctx, func(tx Store) error {
		e, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if e.Deleted() {
			return invalid("id", "item is already deleted")
		}
		if s.buildingType(e) != model.BuildingWarehouse {
			return invalid("id", "only items in the warehouse can be deleted; transfer it back first")
		}

		next := *e
		next.DeleteReason = reason
		next.DeleteNote = note
		next.LastUpdated = s.now().UTC()
		deleted, err = tx.UpdateEquipment(ctx, next)
		if err != nil {
			return err
		}
		if deleted == nil {
			return &NotFoundError{Kind: "equipment", ID: id}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("deleting equipment", err)
	}

	s.metrics.ObserveDeleted(string(reason), 1)
	slog.Info("equipment deleted", "id", id, "serial", deleted.SerialNumber, "reason", reason)
	return deleted, nil
}

// DeleteBatch soft-deletes the eligible items of a mixed selection. Items that
// are unknown, already deleted, or outside the warehouse are skipped without
// failing the batch. The eligible items are deleted in one transaction.
func (s *Service) DeleteBatch(ctx context.Context, ids []string, reason model.DeleteReason, note string) (*DeleteBatchResult, error) {
	note = strings.TrimSpace(note)
	if err := checkDeleteReason(reason, note); err != nil {
		return nil, err
	}
	if err := checkIDs(ids); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	res := &DeleteBatchResult{Deleted: []model.Equipment{}, Skipped: []string{}}
	err := s.store.InTx(ctx, func(tx Store) error {
		items, err := tx.ListEquipment(ctx, model.EquipmentFilter{IDs: ids})
		if err != nil {
			return err
		}
		byID := make(map[string]*model.Equipment, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		for _, id := range ids {
			e, ok := byID[id]
			if !ok || e.Deleted() || s.buildingType(e) != model.BuildingWarehouse {
				res.Skipped = append(res.Skipped, id)
				continue
			}

			next := *e
			next.DeleteReason = reason
			next.DeleteNote = note
			next.LastUpdated = now
			updated, err := tx.UpdateEquipment(ctx, next)
			if err != nil {
				return err
			}
			if updated == nil {
				return &NotFoundError{Kind: "equipment", ID: id}
			}
			res.Deleted = append(res.Deleted, *updated)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("deleting equipment", err)
	}

	s.metrics.ObserveDeleted(string(reason), len(res.Deleted))
	slog.Info("equipment batch deleted", "deleted", len(res.Deleted), "skipped", len(res.Skipped), "reason", reason)
	return res, nil
}

// ChangeStatusBatch sets the status of every selected item. All items must
// currently share one status and status must be valid in each item's room;
// otherwise nothing is changed.
func (s *Service) ChangeStatusBatch(ctx context.Context, ids []string, status model.EquipmentStatus) ([]model.Equipment, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	if !policy.KnownStatus(status) {
		return nil, invalid("status", "unknown status %q", status)
	}

	now := s.now().UTC()
	var changed []model.Equipment
	err := s.store.InTx(ctx, func(tx Store) error {
		byID, err := s.loadAll(ctx, tx, ids)
		if err != nil {
			return err
		}

		shared := byID[ids[0]].Status
		var issues []Issue
		for i, id := range ids {
			e := byID[id]
			switch bt := s.buildingType(e); {
			case e.Deleted():
				issues = append(issues, Issue{Index: i, Field: "id", Message: "item is deleted"})
			case e.Status != shared:
				issues = append(issues, Issue{Index: i, Field: "status",
					Message: "selected items must share one status, found " + string(shared) + " and " + string(e.Status)})
			case !policy.ValidStatus(status, bt):
				issues = append(issues, Issue{Index: i, Field: "status",
					Message: "status " + string(status) + " is not valid in a " + string(bt)})
			}
		}
		if len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}

		changed = make([]model.Equipment, 0, len(ids))
		for _, id := range ids {
			next := *byID[id]
			next.Status = status
			next.LastUpdated = now
			updated, err := tx.UpdateEquipment(ctx, next)
			if err != nil {
				return err
			}
			if updated == nil {
				return &NotFoundError{Kind: "equipment", ID: id}
			}
			changed = append(changed, *updated)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("changing status", err)
	}

	s.metrics.ObserveStatusChange(string(status), len(changed))
	slog.Info("equipment status changed", "count", len(changed), "status", status)
	return changed, nil
}

// PurgeExpired permanently removes soft-deleted items whose retention under p
// has run out. Items are removed in chunks; if a chunk fails the returned
// StoreError and result both carry the number already purged. Running it
// again right after a successful run purges nothing.
func (s *Service) PurgeExpired(ctx context.Context, p retention.Policy) (PurgeResult, error) {
	var res PurgeResult

	deleted := true
	items, err := s.store.ListEquipment(ctx, model.EquipmentFilter{Deleted: &deleted})
	if err != nil {
		err = &StoreError{Op: "purging equipment", Err: err}
		s.metrics.ObservePurge(0, err)
		slog.Error("purge failed", "error", err)
		return res, err
	}

	due := retention.Select(p, items, s.now())
	ids := make([]string, len(due))
	for i, e := range due {
		ids[i] = e.ID
	}

	for start := 0; start < len(ids); start += s.purgeChunk {
		end := min(start+s.purgeChunk, len(ids))

		if err := ctx.Err(); err != nil {
			return s.purgeFailed(res, len(ids), err)
		}
		n, err := s.store.DeleteEquipmentPermanently(ctx, ids[start:end])
		if err != nil {
			return s.purgeFailed(res, len(ids), err)
		}
		res.Purged += n
	}

	s.metrics.ObservePurge(res.Purged, nil)
	slog.Info("purge completed", "purged", res.Purged, "pending", len(items)-res.Purged, "policy", p.String())
	return res, nil
}

func (s *Service) purgeFailed(res PurgeResult, due int, err error) (PurgeResult, error) {
	res.Remaining = due - res.Purged
	serr := &StoreError{Op: "purging equipment", Done: res.Purged, Err: err}
	s.metrics.ObservePurge(res.Purged, serr)
	slog.Error("purge failed", "purged", res.Purged, "remaining", res.Remaining, "error", err)
	return res, serr
}
