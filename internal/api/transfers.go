package api

import (
	"net/http"

	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/model"
)

// TransfersHandler handles moves between rooms and the transfer log.
type TransfersHandler struct {
	Service *inventory.Service
}

type transferRequest struct {
	ToRoomID string `json:"to_room_id"`
}

type transferBatchRequest struct {
	IDs      []string `json:"ids"`
	ToRoomID string   `json:"to_room_id"`
}

// Transfer handles POST /api/equipment/{id}/transfer.
func (h *TransfersHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ToRoomID == "" {
		jsonError(w, http.StatusBadRequest, "to_room_id required")
		return
	}

	res, err := h.Service.Transfer(r.Context(), r.PathValue("id"), req.ToRoomID)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// TransferBatch handles POST /api/equipment/transfer. Either every item moves
// or none does.
func (h *TransfersHandler) TransferBatch(w http.ResponseWriter, r *http.Request) {
	var req transferBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ToRoomID == "" {
		jsonError(w, http.StatusBadRequest, "to_room_id required")
		return
	}

	res, err := h.Service.TransferBatch(r.Context(), req.IDs, req.ToRoomID)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// History handles GET /api/equipment/{id}/history.
func (h *TransfersHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.History(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	if history == nil {
		history = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// List handles GET /api/transfers?equipment_id=&room_id=.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.Service.Transfers(r.Context(), model.TransferFilter{
		EquipmentID: r.URL.Query().Get("equipment_id"),
		RoomID:      r.URL.Query().Get("room_id"),
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}
