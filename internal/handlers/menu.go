package handlers

import (
	"net/http"
	"strconv"

	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/units"
	"github.com/dineops/dineops/internal/validation"
)

// MenuHandler exposes menu categories, items and recipes.
type MenuHandler struct {
	menu *services.MenuService
}

func NewMenuHandler(menu *services.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("category_id"), 10, 64)
	items, err := h.menu.ListItems(r.Context(), callerRestaurant(r), uint(categoryID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menu.GetItem(r.Context(), callerRestaurant(r), pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type menuItemRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"image_url"`
	PreparationTime int     `json:"preparation_time"`
	IsAvailable     bool    `json:"is_available"`
	CategoryID      *uint   `json:"category_id"`
}

func (req *menuItemRequest) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.PositiveFloat("price", req.Price, v)
	return v
}

func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	item := &models.MenuItem{
		RestaurantID:    callerRestaurant(r),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		PreparationTime: req.PreparationTime,
		IsAvailable:     req.IsAvailable,
		CategoryID:      req.CategoryID,
	}
	if err := h.menu.CreateItem(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	updates := &models.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		PreparationTime: req.PreparationTime,
		IsAvailable:     req.IsAvailable,
		CategoryID:      req.CategoryID,
	}
	item, err := h.menu.UpdateItem(r.Context(), callerRestaurant(r), pathID(r, "id"), updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.DeleteItem(r.Context(), callerRestaurant(r), pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type ingredientRequest struct {
	InventoryItemID uint       `json:"inventory_item_id"`
	Quantity        float64    `json:"quantity"`
	Unit            units.Unit `json:"unit"`
	IsOptional      bool       `json:"is_optional"`
}

type setIngredientsRequest struct {
	Ingredients []ingredientRequest `json:"ingredients"`
}

// SetIngredients replaces a menu item's recipe in one call.
func (h *MenuHandler) SetIngredients(w http.ResponseWriter, r *http.Request) {
	var req setIngredientsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ingredients := make([]models.MenuIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, models.MenuIngredient{
			InventoryItemID: ing.InventoryItemID,
			Quantity:        ing.Quantity,
			Unit:            ing.Unit,
			IsOptional:      ing.IsOptional,
		})
	}
	item, err := h.menu.SetIngredients(r.Context(), callerRestaurant(r), pathID(r, "id"), ingredients)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.menu.ListCategories(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
}

func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	cat := &models.MenuCategory{
		RestaurantID: callerRestaurant(r),
		Name:         req.Name,
		Position:     req.Position,
		IsActive:     req.IsActive,
	}
	if err := h.menu.CreateCategory(r.Context(), cat); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.DeleteCategory(r.Context(), callerRestaurant(r), pathID(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
