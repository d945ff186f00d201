package api

import (
	"net/http"

	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/model"
)

// RoomsHandler serves the room catalog.
type RoomsHandler struct {
	Service *inventory.Service
}

// List handles GET /api/rooms?q=&type=.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	bt := model.BuildingType(r.URL.Query().Get("type"))
	if bt != "" && !bt.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid building type")
		return
	}

	rooms := h.Service.Catalog().Search(r.URL.Query().Get("q"), bt)
	if rooms == nil {
		rooms = []model.Room{}
	}
	jsonResponse(w, http.StatusOK, rooms)
}

// Get handles GET /api/rooms/{id}.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, ok := h.Service.Catalog().FindByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "room not found")
		return
	}
	jsonResponse(w, http.StatusOK, room)
}
