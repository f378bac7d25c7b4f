package handlers

import (
	"net/http"
	"strconv"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/units"
	"github.com/dineops/dineops/internal/validation"
)

// InventoryHandler exposes inventory items, the stock ledger and the waste
// log.
type InventoryHandler struct {
	inventory *services.InventoryService
}

func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	rid := callerRestaurant(r)
	status := models.StockStatus(r.URL.Query().Get("status"))
	category := r.URL.Query().Get("category")
	items, err := h.inventory.List(r.Context(), rid, status, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(r.Context(), callerRestaurant(r), pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type inventoryItemRequest struct {
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	SKU          string     `json:"sku"`
	Barcode      string     `json:"barcode"`
	Location     string     `json:"location"`
	CurrentStock float64    `json:"current_stock"`
	MinStock     float64    `json:"min_stock"`
	MaxStock     float64    `json:"max_stock"`
	Unit         units.Unit `json:"unit"`
	CostPerUnit  float64    `json:"cost_per_unit"`
	SupplierName string     `json:"supplier_name"`
	ExpiryDate   *string    `json:"expiry_date"`
}

func (req *inventoryItemRequest) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.ValidUnit("unit", req.Unit, v)
	validation.NonNegativeFloat("current_stock", req.CurrentStock, v)
	validation.NonNegativeFloat("min_stock", req.MinStock, v)
	validation.NonNegativeFloat("cost_per_unit", req.CostPerUnit, v)
	return v
}

func (req *inventoryItemRequest) toModel(restaurantID uint) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Category:     req.Category,
		SKU:          req.SKU,
		Barcode:      req.Barcode,
		Location:     req.Location,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		Unit:         req.Unit,
		CostPerUnit:  req.CostPerUnit,
		SupplierName: req.SupplierName,
	}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		t, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		item.ExpiryDate = &t
	}
	return item, nil
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	item, err := req.toModel(callerRestaurant(r))
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", map[string]string{"expiry_date": "bad_date"})
		return
	}
	if err := h.inventory.Create(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	rid := callerRestaurant(r)
	updates, err := req.toModel(rid)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", map[string]string{"expiry_date": "bad_date"})
		return
	}
	item, err := h.inventory.Update(r.Context(), rid, pathID(r, "id"), updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), callerRestaurant(r), pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type transactionRequest struct {
	Quantity float64                  `json:"quantity"`
	Reason   models.TransactionReason `json:"reason"`
	Notes    string                   `json:"notes"`
}

// RecordTransaction posts a manual stock movement (restock, adjustment,
// transfer) to the ledger.
func (h *InventoryHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	txn := &models.InventoryTransaction{
		RestaurantID:    callerRestaurant(r),
		InventoryItemID: pathID(r, "id"),
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		Notes:           req.Notes,
		PerformedBy:     &userID,
	}
	if err := h.inventory.RecordTransaction(r.Context(), txn); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, txn)
}

func (h *InventoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txns, err := h.inventory.Transactions(r.Context(), callerRestaurant(r), pathID(r, "id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txns)
}

type wasteRequest struct {
	Quantity float64 `json:"quantity"`
	Cause    string  `json:"cause"`
}

func (h *InventoryHandler) RecordWaste(w http.ResponseWriter, r *http.Request) {
	var req wasteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	entry, err := h.inventory.RecordWaste(r.Context(), callerRestaurant(r), pathID(r, "id"), req.Quantity, req.Cause, &userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.LowStock(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}
