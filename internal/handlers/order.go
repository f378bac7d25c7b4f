package handlers

import (
	"net/http"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/validation"
)

// OrderHandler exposes the order lifecycle.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), callerRestaurant(r), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), callerRestaurant(r), pathID(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type createOrderRequest struct {
	TableID     *uint              `json:"table_id"`
	OrderType   string             `json:"order_type"`
	DiscountPct float64            `json:"discount_pct"`
	Notes       string             `json:"notes"`
	Items       []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	MenuItemID uint   `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	ChairID    *uint  `json:"chair_id"`
	Notes      string `json:"notes"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	v := make(validation.Violations)
	validation.RangeFloat("discount_pct", req.DiscountPct, 0, 100, v)
	if req.OrderType != "" {
		validation.OneOf("order_type", req.OrderType,
			[]string{string(models.OrderDineIn), string(models.OrderTakeaway), string(models.OrderDelivery)}, v)
	}
	if len(req.Items) == 0 {
		v["items"] = "required"
	}
	for _, it := range req.Items {
		validation.PositiveInt("items.quantity", it.Quantity, v)
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	in := services.CreateOrderInput{
		RestaurantID: callerRestaurant(r),
		ServerID:     &userID,
		TableID:      req.TableID,
		OrderType:    models.OrderType(req.OrderType),
		DiscountPct:  req.DiscountPct,
		Notes:        req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.CreateOrderItemInput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			ChairID:    it.ChairID,
			Notes:      it.Notes,
		})
	}

	order, err := h.orders.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), callerRestaurant(r), pathID(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type voidRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Void(w http.ResponseWriter, r *http.Request) {
	var req voidRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	v := make(validation.Violations)
	validation.Required("reason", req.Reason, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	order, err := h.orders.Void(r.Context(), callerRestaurant(r), pathID(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type paymentRequest struct {
	Method string `json:"method"`
}

func (h *OrderHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	v := make(validation.Violations)
	validation.OneOf("method", req.Method, []string{"cash", "card", "mobile"}, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}
	order, err := h.orders.ProcessPayment(r.Context(), callerRestaurant(r), pathID(r, "id"), req.Method)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
