package handlers

import (
	"net/http"

	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/validation"
)

// RestaurantHandler exposes tenant registration (admin only), staff
// management, settings and reports.
type RestaurantHandler struct {
	accounts *services.AccountService
	settings *services.SettingsService
	reports  *services.ReportService
}

func NewRestaurantHandler(accounts *services.AccountService, settings *services.SettingsService, reports *services.ReportService) *RestaurantHandler {
	return &RestaurantHandler{accounts: accounts, settings: settings, reports: reports}
}

type registerRequest struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	OwnerEmail    string `json:"owner_email"`
	OwnerName     string `json:"owner_name"`
	OwnerPassword string `json:"owner_password"`
}

// Register provisions a restaurant with its owner account. Routed behind
// the admin gate.
func (h *RestaurantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.Required("slug", req.Slug, v)
	validation.Required("owner_email", req.OwnerEmail, v)
	validation.Required("owner_name", req.OwnerName, v)
	if len(req.OwnerPassword) < 8 {
		v["owner_password"] = "too_short"
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}

	rest, owner, err := h.accounts.RegisterRestaurant(r.Context(), services.RegisterRestaurantInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		OwnerEmail:    req.OwnerEmail,
		OwnerName:     req.OwnerName,
		OwnerPassword: req.OwnerPassword,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"restaurant": rest, "owner": owner})
}

type createStaffRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
}

func (h *RestaurantHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	v := make(validation.Violations)
	validation.Required("email", req.Email, v)
	validation.Required("name", req.Name, v)
	validation.OneOf("role", req.Role, []string{models.RoleManager, models.RoleStaff, models.RoleKitchen}, v)
	validation.NonNegativeFloat("hourly_rate", req.HourlyRate, v)
	if len(req.Password) < 8 {
		v["password"] = "too_short"
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}

	user, err := h.accounts.CreateStaff(r.Context(), services.CreateStaffInput{
		RestaurantID: callerRestaurant(r),
		Email:        req.Email,
		Name:         req.Name,
		Password:     req.Password,
		RoleName:     req.Role,
		HourlyRate:   req.HourlyRate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *RestaurantHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListStaff(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *RestaurantHandler) GetPOSSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.POS(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *RestaurantHandler) UpdatePOSSettings(w http.ResponseWriter, r *http.Request) {
	var updates models.POSSettings
	if err := httpx.Decode(r, &updates); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	settings, err := h.settings.UpdatePOS(r.Context(), callerRestaurant(r), &updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *RestaurantHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Restaurant(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *RestaurantHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates models.RestaurantSettings
	if err := httpx.Decode(r, &updates); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	settings, err := h.settings.UpdateRestaurant(r.Context(), callerRestaurant(r), &updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *RestaurantHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Inventory(r.Context(), callerRestaurant(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *RestaurantHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	from, to := periodFromQuery(r)
	report, err := h.reports.Sales(r.Context(), callerRestaurant(r), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
