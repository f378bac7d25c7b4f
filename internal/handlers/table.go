package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/validation"
)

// TableHandler exposes tables, chairs and the table QR codes that link
// guests to the ordering page.
type TableHandler struct {
	tables   *services.TableService
	settings *services.SettingsService
}

func NewTableHandler(tables *services.TableService, settings *services.SettingsService) *TableHandler {
	return &TableHandler{tables: tables, settings: settings}
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.List(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tables)
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, err := h.tables.Get(r.Context(), callerRestaurant(r), pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, table)
}

type tableRequest struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Zone     string `json:"zone"`
	IsActive bool   `json:"is_active"`
}

func (req *tableRequest) validate() validation.Violations {
	v := make(validation.Violations)
	validation.PositiveInt("number", req.Number, v)
	validation.PositiveInt("capacity", req.Capacity, v)
	return v
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	table := &models.Table{
		RestaurantID: callerRestaurant(r),
		Number:       req.Number,
		Name:         req.Name,
		Capacity:     req.Capacity,
		Zone:         req.Zone,
		IsActive:     req.IsActive,
	}
	if err := h.tables.Create(r.Context(), table); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, table)
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	updates := &models.Table{
		Number:   req.Number,
		Name:     req.Name,
		Capacity: req.Capacity,
		Zone:     req.Zone,
		IsActive: req.IsActive,
	}
	table, err := h.tables.Update(r.Context(), callerRestaurant(r), pathID(r, "id"), updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, table)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tables.Delete(r.Context(), callerRestaurant(r), pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type chairStatusRequest struct {
	Status models.ChairStatus `json:"status"`
}

func (h *TableHandler) SetChairStatus(w http.ResponseWriter, r *http.Request) {
	var req chairStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	chair, err := h.tables.SetChairStatus(r.Context(), callerRestaurant(r),
		pathID(r, "id"), pathID(r, "chairID"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, chair)
}

// QRCode renders the table's ordering link as a PNG. The link points at the
// tenant's configured ordering base URL; a chair query parameter narrows it
// to one seat.
func (h *TableHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	rid := callerRestaurant(r)
	table, err := h.tables.Get(r.Context(), rid, pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := h.settings.Restaurant(r.Context(), rid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	base := settings.OrderingBaseURL
	if base == "" {
		httpx.Error(w, http.StatusConflict, "ordering_url_not_configured", nil)
		return
	}

	link := fmt.Sprintf("%s?table=%d", base, table.Number)
	if chair := r.URL.Query().Get("chair"); chair != "" {
		pos, err := strconv.Atoi(chair)
		if err != nil || pos < 1 || pos > table.Capacity {
			httpx.Error(w, http.StatusUnprocessableEntity, "invalid", map[string]string{"chair": "out_of_range"})
			return
		}
		link = fmt.Sprintf("%s&chair=%d", link, pos)
	}

	size := 256
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s >= 64 && s <= 1024 {
		size = s
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="table-%d.png"`, table.Number))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
