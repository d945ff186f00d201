package api

import (
	"net/http"
	"time"

	"github.com/honlab/equiptrack/internal/imaging"
	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/retention"
)

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	Service   *inventory.Service
	Retention retention.Policy
}

type createEquipmentRequest struct {
	inventory.NewEquipment
	SerialNumbers []string `json:"serial_numbers"`
}

type deleteRequest struct {
	Reason model.DeleteReason `json:"reason"`
	Note   string             `json:"note"`
}

type deleteBatchRequest struct {
	IDs    []string           `json:"ids"`
	Reason model.DeleteReason `json:"reason"`
	Note   string             `json:"note"`
}

type statusRequest struct {
	IDs    []string              `json:"ids"`
	Status model.EquipmentStatus `json:"status"`
}

type deletedEquipment struct {
	model.Equipment
	PurgeAt time.Time `json:"purge_at"`
}

// List handles GET /api/equipment?q=&status=&type=.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Service.List(r.Context(), model.EquipmentFilter{
		Query:        q.Get("q"),
		Status:       model.EquipmentStatus(q.Get("status")),
		BuildingType: model.BuildingType(q.Get("type")),
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	if items == nil {
		items = []model.Equipment{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.Service.Create(r.Context(), req.NewEquipment, req.SerialNumbers)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, items)
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Edit handles PUT /api/equipment/{id}.
func (h *EquipmentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req inventory.EditFields
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Edit(r.Context(), r.PathValue("id"), req)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Stats handles GET /api/equipment/stats.
func (h *EquipmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// ListDeleted handles GET /api/equipment/deleted.
func (h *EquipmentHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListSoftDeleted(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]deletedEquipment, len(items))
	for i, e := range items {
		out[i] = deletedEquipment{Equipment: e, PurgeAt: h.Retention.PurgeAt(e.LastUpdated)}
	}
	jsonResponse(w, http.StatusOK, out)
}

// Delete handles POST /api/equipment/{id}/delete.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Delete(r.Context(), r.PathValue("id"), req.Reason, req.Note)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, deletedEquipment{Equipment: *item, PurgeAt: h.Retention.PurgeAt(item.LastUpdated)})
}

// DeleteBatch handles POST /api/equipment/delete.
func (h *EquipmentHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.DeleteBatch(r.Context(), req.IDs, req.Reason, req.Note)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// ChangeStatus handles POST /api/equipment/status.
func (h *EquipmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.Service.ChangeStatusBatch(r.Context(), req.IDs, req.Status)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// UploadImage handles PUT /api/equipment/{id}/image with a multipart "image"
// field.
func (h *EquipmentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxInputBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxInputBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	if err := h.Service.SetImage(r.Context(), r.PathValue("id"), file); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/equipment/{id}/image.
func (h *EquipmentHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Service.Image(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
