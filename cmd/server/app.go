package main

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/gate"
	"github.com/dineops/dineops/internal/handlers"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
)

// App is the main application handler that wires services, handlers and
// routes.
type App struct {
	mux      *http.ServeMux
	db       *gorm.DB
	gate     *gate.Gate
	tokens   *auth.TokenIssuer
	sessions *auth.SessionStore
	log      *zap.SugaredLogger

	authHandler       *handlers.AuthHandler
	inventoryHandler  *handlers.InventoryHandler
	menuHandler       *handlers.MenuHandler
	orderHandler      *handlers.OrderHandler
	tableHandler      *handlers.TableHandler
	payrollHandler    *handlers.PayrollHandler
	restaurantHandler *handlers.RestaurantHandler
}

// NewApp builds the full service and handler graph over one DB connection.
func NewApp(db *gorm.DB, g *gate.Gate, tokens *auth.TokenIssuer, sessions *auth.SessionStore, log *zap.SugaredLogger) *App {
	accounts := services.NewAccountService(db, log)
	inventory := services.NewInventoryService(db, log)
	menu := services.NewMenuService(db, log)
	orders := services.NewOrderService(db, log)
	tables := services.NewTableService(db, log)
	payroll := services.NewPayrollService(db, log)
	settings := services.NewSettingsService(db)
	reports := services.NewReportService(db)

	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		gate:     g,
		tokens:   tokens,
		sessions: sessions,
		log:      log,

		authHandler:       handlers.NewAuthHandler(accounts, tokens, sessions),
		inventoryHandler:  handlers.NewInventoryHandler(inventory),
		menuHandler:       handlers.NewMenuHandler(menu),
		orderHandler:      handlers.NewOrderHandler(orders),
		tableHandler:      handlers.NewTableHandler(tables, settings),
		payrollHandler:    handlers.NewPayrollHandler(payroll),
		restaurantHandler: handlers.NewRestaurantHandler(accounts, settings, reports),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withIdentity(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// Public
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("POST /api/auth/admin/login", a.authHandler.LoginAdmin)
	a.mux.HandleFunc("POST /api/auth/owner/login", a.authHandler.LoginOwner)
	a.mux.HandleFunc("POST /api/auth/staff/login", a.authHandler.LoginStaff)
	a.mux.HandleFunc("POST /api/auth/logout", a.authHandler.Logout)

	a.mux.Handle("GET /api/auth/verify", a.requireAuth(http.HandlerFunc(a.authHandler.Me)))

	// Inventory
	ih := a.inventoryHandler
	a.handle("GET /api/inventory", "inventory", gate.ActionList, ih.List)
	a.handle("POST /api/inventory", "inventory", gate.ActionCreate, ih.Create)
	a.handle("GET /api/inventory/low-stock", "inventory", gate.ActionList, ih.LowStock)
	a.handle("GET /api/inventory/{id}", "inventory", gate.ActionView, ih.Get)
	a.handle("PUT /api/inventory/{id}", "inventory", gate.ActionUpdate, ih.Update)
	a.handle("DELETE /api/inventory/{id}", "inventory", gate.ActionDelete, ih.Delete)
	a.handle("GET /api/inventory/{id}/transactions", "inventory", gate.ActionView, ih.Transactions)
	a.handle("POST /api/inventory/{id}/transactions", "inventory", gate.ActionUpdate, ih.RecordTransaction)
	a.handle("POST /api/inventory/{id}/waste", "inventory", gate.ActionUpdate, ih.RecordWaste)

	// Menu
	mh := a.menuHandler
	a.handle("GET /api/menu/items", "menu", gate.ActionList, mh.ListItems)
	a.handle("POST /api/menu/items", "menu", gate.ActionCreate, mh.CreateItem)
	a.handle("GET /api/menu/items/{id}", "menu", gate.ActionView, mh.GetItem)
	a.handle("PUT /api/menu/items/{id}", "menu", gate.ActionUpdate, mh.UpdateItem)
	a.handle("DELETE /api/menu/items/{id}", "menu", gate.ActionDelete, mh.DeleteItem)
	a.handle("PUT /api/menu/items/{id}/ingredients", "menu", gate.ActionUpdate, mh.SetIngredients)
	a.handle("GET /api/menu/categories", "menu", gate.ActionList, mh.ListCategories)
	a.handle("POST /api/menu/categories", "menu", gate.ActionCreate, mh.CreateCategory)
	a.handle("DELETE /api/menu/categories/{id}", "menu", gate.ActionDelete, mh.DeleteCategory)

	// Orders
	oh := a.orderHandler
	a.handle("GET /api/orders", "order", gate.ActionList, oh.List)
	a.handle("POST /api/orders", "order", gate.ActionCreate, oh.Create)
	a.handle("GET /api/orders/{id}", "order", gate.ActionView, oh.Get)
	a.handle("PUT /api/orders/{id}/status", "order", gate.ActionUpdate, oh.UpdateStatus)
	a.handle("POST /api/orders/{id}/void", "order", gate.ActionVoid, oh.Void)
	a.handle("POST /api/orders/{id}/payment", "order", gate.ActionPayment, oh.ProcessPayment)

	// Tables and chairs
	th := a.tableHandler
	a.handle("GET /api/tables", "table", gate.ActionList, th.List)
	a.handle("POST /api/tables", "table", gate.ActionCreate, th.Create)
	a.handle("GET /api/tables/{id}", "table", gate.ActionView, th.Get)
	a.handle("PUT /api/tables/{id}", "table", gate.ActionUpdate, th.Update)
	a.handle("DELETE /api/tables/{id}", "table", gate.ActionDelete, th.Delete)
	a.handle("PUT /api/tables/{id}/chairs/{chairID}", "table", gate.ActionUpdate, th.SetChairStatus)
	a.handle("GET /api/tables/{id}/qr", "table", gate.ActionView, th.QRCode)

	// Payroll
	ph := a.payrollHandler
	a.handle("POST /api/payroll/clock-in", "payroll", gate.ActionCreate, ph.ClockIn)
	a.handle("POST /api/payroll/clock-out", "payroll", gate.ActionCreate, ph.ClockOut)
	a.handle("GET /api/payroll/shifts", "payroll", gate.ActionList, ph.ListShifts)
	a.handle("GET /api/payroll/summary", "payroll", gate.ActionView, ph.Summary)

	// Staff, settings and reports
	rh := a.restaurantHandler
	a.handle("GET /api/staff", "staff", gate.ActionList, rh.ListStaff)
	a.handle("POST /api/staff", "staff", gate.ActionCreate, rh.CreateStaff)
	a.handle("GET /api/settings/pos", "settings", gate.ActionView, rh.GetPOSSettings)
	a.handle("PUT /api/settings/pos", "settings", gate.ActionUpdate, rh.UpdatePOSSettings)
	a.handle("GET /api/settings/restaurant", "settings", gate.ActionView, rh.GetSettings)
	a.handle("PUT /api/settings/restaurant", "settings", gate.ActionUpdate, rh.UpdateSettings)
	a.handle("GET /api/reports/inventory", "report", gate.ActionView, rh.InventoryReport)
	a.handle("GET /api/reports/sales", "report", gate.ActionView, rh.SalesReport)

	// Platform admin
	a.mux.Handle("POST /api/admin/restaurants",
		a.requireAuth(a.gate.RequireAdmin()(http.HandlerFunc(rh.Register))))
}

// handle registers a route behind auth plus a permission check.
func (a *App) handle(pattern, resourceType string, action gate.Action, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.requireAuth(a.gate.RequirePermission(resourceType, action)(h)))
}

// withIdentity resolves the caller from a bearer token or, failing that,
// the session cookie, and attaches the identity to the context. Requests
// without credentials pass through anonymous; requireAuth stops them at
// protected routes.
func (a *App) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := auth.BearerToken(r); token != "" {
			if id, err := a.tokens.Verify(token); err == nil {
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
				return
			}
		}
		if userID, ok := a.sessions.Parse(r); ok {
			var user models.User
			if err := a.db.Preload("Role").First(&user, userID).Error; err == nil && user.IsActive {
				id := auth.Identity{UserID: user.ID}
				if user.RestaurantID != nil {
					id.RestaurantID = *user.RestaurantID
				}
				if user.Role != nil {
					id.Role = user.Role.Name
				}
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without an authenticated identity.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
