package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/policy"
)

// TransferResult is one moved item together with its audit record.
type TransferResult struct {
	Equipment model.Equipment `json:"equipment"`
	Transfer  model.Transfer  `json:"transfer"`
}

// Transfer moves one item to another room. The status is recomputed for the
// destination and the move is recorded in the same transaction.
func (s *Service) Transfer(ctx context.Context, id, toRoomID string) (*TransferResult, error) {
	results, err := s.TransferBatch(ctx, []string{id}, toRoomID)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for i := range verr.Issues {
				verr.Issues[i].Index = -1
			}
		}
		return nil, err
	}
	return &results[0], nil
}

// TransferBatch moves all items to one room. The batch is all-or-nothing:
// every item is checked first and any failing item rejects the whole batch
// with its index reported; otherwise all moves and audit records are written
// in one transaction.
func (s *Service) TransferBatch(ctx context.Context, ids []string, toRoomID string) ([]TransferResult, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	dest, ok := s.catalog.FindByID(toRoomID)
	if !ok {
		return nil, &NotFoundError{Kind: "room", ID: toRoomID}
	}

	now := s.now().UTC()
	actor := actorFrom(ctx)

	var results []TransferResult
	var fromTypes []model.BuildingType
	err := s.store.InTx(ctx, func(tx Store) error {
		byID, err := s.loadAll(ctx, tx, ids)
		if err != nil {
			return err
		}

		var issues []Issue
		for i, id := range ids {
			if msg := s.transferProblem(byID[id], dest); msg != "" {
				issues = append(issues, Issue{Index: i, Field: "id", Message: msg})
			}
		}
		if len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}

		results = make([]TransferResult, 0, len(ids))
		fromTypes = make([]model.BuildingType, 0, len(ids))
		for _, id := range ids {
			e := byID[id]
			from := s.buildingType(e)

			next := *e
			next.RoomID = dest.ID
			next.Status = policy.StatusOnTransfer(e.Status, from, dest.BuildingType)
			next.LastUpdated = now

			updated, err := tx.UpdateEquipment(ctx, next)
			if err != nil {
				return err
			}
			if updated == nil {
				return &NotFoundError{Kind: "equipment", ID: id}
			}

			t, err := tx.RecordTransfer(ctx, model.Transfer{
				EquipmentID:    e.ID,
				SerialNumber:   e.SerialNumber,
				FromRoomID:     e.RoomID,
				ToRoomID:       dest.ID,
				PreviousStatus: e.Status,
				NewStatus:      next.Status,
				TransferredAt:  now,
				TransferredBy:  actor,
			})
			if err != nil {
				return err
			}
			results = append(results, TransferResult{Equipment: *updated, Transfer: *t})
			fromTypes = append(fromTypes, from)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("transferring equipment", err)
	}

	for i, r := range results {
		s.metrics.ObserveTransfer(string(fromTypes[i]), string(dest.BuildingType))
		slog.Info("equipment transferred",
			"id", r.Equipment.ID,
			"serial", r.Equipment.SerialNumber,
			"from", r.Transfer.FromRoomID,
			"to", r.Transfer.ToRoomID,
			"status", r.Transfer.NewStatus,
		)
	}
	return results, nil
}

// transferProblem explains why e cannot move to dest, or returns "".
func (s *Service) transferProblem(e *model.Equipment, dest model.Room) string {
	from := s.buildingType(e)
	switch {
	case e.Deleted():
		return "item is deleted"
	case e.RoomID == dest.ID:
		return fmt.Sprintf("item is already in %s", dest.Name)
	case !policy.CanTransfer(e.Status, from):
		return fmt.Sprintf("items with status %s cannot leave the warehouse", e.Status)
	}
	return ""
}

// History returns the transfers of one item, newest first. History outlives
// the item, so purged ids still return their log.
func (s *Service) History(ctx context.Context, id string) ([]model.Transfer, error) {
	transfers, err := s.store.ListTransfers(ctx, model.TransferFilter{EquipmentID: id})
	if err != nil {
		return nil, storeErr("listing transfers", err)
	}
	return transfers, nil
}

// Transfers returns the transfer log filtered by item or room.
func (s *Service) Transfers(ctx context.Context, f model.TransferFilter) ([]model.Transfer, error) {
	if f.RoomID != "" {
		if _, ok := s.catalog.FindByID(f.RoomID); !ok {
			return nil, &NotFoundError{Kind: "room", ID: f.RoomID}
		}
	}
	transfers, err := s.store.ListTransfers(ctx, f)
	if err != nil {
		return nil, storeErr("listing transfers", err)
	}
	return transfers, nil
}
