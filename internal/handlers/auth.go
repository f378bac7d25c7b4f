package handlers

import (
	"net/http"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/validation"
)

// AuthHandler exposes the login surfaces. Each surface admits a fixed set
// of roles so a staff credential cannot open the admin console. Logins hand
// out both a bearer token for API clients and a signed session cookie.
type AuthHandler struct {
	accounts *services.AccountService
	tokens   *auth.TokenIssuer
	sessions *auth.SessionStore
}

func NewAuthHandler(accounts *services.AccountService, tokens *auth.TokenIssuer, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginAdmin admits platform admins only.
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleAdmin)
}

// LoginOwner admits restaurant owners and managers.
func (h *AuthHandler) LoginOwner(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleOwner, models.RoleManager)
}

// LoginStaff admits floor and kitchen staff alongside managers.
func (h *AuthHandler) LoginStaff(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleManager, models.RoleStaff, models.RoleKitchen)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, roles ...string) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	v := make(validation.Violations)
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid", v)
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password, roles...)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id := auth.Identity{UserID: user.ID}
	if user.RestaurantID != nil {
		id.RestaurantID = *user.RestaurantID
	}
	if user.Role != nil {
		id.Role = user.Role.Name
	}
	token, err := h.tokens.Issue(id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	h.sessions.Create(w, user.ID)
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.accounts.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
