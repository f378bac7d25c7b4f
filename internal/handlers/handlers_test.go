package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dineops/dineops/internal/auth"
	dbpkg "github.com/dineops/dineops/internal/db"
	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/services"
	"github.com/dineops/dineops/internal/units"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbpkg.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// testTenant registers a restaurant with an owner and returns both plus
// the owner's identity for context injection.
func testTenant(t *testing.T, db *gorm.DB) (*models.Restaurant, auth.Identity) {
	t.Helper()
	accounts := services.NewAccountService(db, testLogger())
	rest, owner, err := accounts.RegisterRestaurant(t.Context(), services.RegisterRestaurantInput{
		Name: "Handler Test", Slug: "handler-test",
		OwnerEmail: "owner@handler.test", OwnerName: "Owner", OwnerPassword: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register tenant: %v", err)
	}
	return rest, auth.Identity{UserID: owner.ID, RestaurantID: rest.ID, Role: models.RoleOwner}
}

// request builds an authenticated JSON request with optional path values.
func request(t *testing.T, id auth.Identity, method, target, body string, pathValues map[string]string) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.WithIdentity(req.Context(), id))
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
}

func TestLoginSurfaces(t *testing.T) {
	db := setupTestDB(t)
	testTenant(t, db)
	accounts := services.NewAccountService(db, testLogger())
	h := NewAuthHandler(accounts, auth.NewTokenIssuer("test-secret"), auth.NewSessionStore("test-secret"))

	body := `{"email":"owner@handler.test","password":"correct-horse"}`

	w := httptest.NewRecorder()
	h.LoginOwner(w, httptest.NewRequest(http.MethodPost, "/auth/owner/login", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("owner login: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	decodeBody(t, w, &resp)
	if resp.Token == "" || resp.User == nil {
		t.Fatalf("login response: %+v", resp)
	}
	// Password hash must never appear in the response.
	if strings.Contains(w.Body.String(), "$2a$") {
		t.Fatal("password hash leaked in login response")
	}

	// The admin surface rejects the same valid owner credential.
	w = httptest.NewRecorder()
	h.LoginAdmin(w, httptest.NewRequest(http.MethodPost, "/auth/admin/login", strings.NewReader(body)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("admin surface with owner credential: %d", w.Code)
	}

	// Wrong password.
	w = httptest.NewRecorder()
	h.LoginOwner(w, httptest.NewRequest(http.MethodPost, "/auth/owner/login",
		strings.NewReader(`{"email":"owner@handler.test","password":"nope"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", w.Code)
	}

	// Missing fields.
	w = httptest.NewRecorder()
	h.LoginOwner(w, httptest.NewRequest(http.MethodPost, "/auth/owner/login", strings.NewReader(`{"email":""}`)))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty payload: %d", w.Code)
	}
}

func TestInventoryHandlerCreateAndWaste(t *testing.T) {
	db := setupTestDB(t)
	_, id := testTenant(t, db)
	h := NewInventoryHandler(services.NewInventoryService(db, testLogger()))

	w := httptest.NewRecorder()
	h.Create(w, request(t, id, http.MethodPost, "/inventory",
		`{"name":"Tomatoes","unit":"kg","current_stock":12,"min_stock":3,"cost_per_unit":2.5}`, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var item models.InventoryItem
	decodeBody(t, w, &item)
	if item.Status != models.StockInStock {
		t.Fatalf("status: %s", item.Status)
	}

	// Unknown unit is a validation error.
	w = httptest.NewRecorder()
	h.Create(w, request(t, id, http.MethodPost, "/inventory",
		`{"name":"Mystery","unit":"barrel","current_stock":1}`, nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad unit: %d", w.Code)
	}

	// Unknown JSON fields are rejected at the boundary.
	w = httptest.NewRecorder()
	h.Create(w, request(t, id, http.MethodPost, "/inventory",
		`{"name":"X","unit":"kg","bogus_field":1}`, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: %d", w.Code)
	}

	itemID := fmt.Sprint(item.ID)
	w = httptest.NewRecorder()
	h.RecordWaste(w, request(t, id, http.MethodPost, "/inventory/"+itemID+"/waste",
		`{"quantity":2,"cause":"dropped"}`, map[string]string{"id": itemID}))
	if w.Code != http.StatusCreated {
		t.Fatalf("waste: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.Get(w, request(t, id, http.MethodGet, "/inventory/"+itemID, "", map[string]string{"id": itemID}))
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}
	decodeBody(t, w, &item)
	if item.CurrentStock != 10 {
		t.Fatalf("stock after waste: %v", item.CurrentStock)
	}
}

func TestOrderHandlerLifecycle(t *testing.T) {
	db := setupTestDB(t)
	rest, id := testTenant(t, db)

	inv := services.NewInventoryService(db, testLogger())
	cheese := &models.InventoryItem{RestaurantID: rest.ID, Name: "Cheese", Unit: units.Gram, CurrentStock: 1000, MinStock: 100}
	if err := inv.Create(t.Context(), cheese); err != nil {
		t.Fatalf("seed cheese: %v", err)
	}
	menuItem := &models.MenuItem{RestaurantID: rest.ID, Name: "Toastie", Price: 8, IsAvailable: true}
	if err := db.Create(menuItem).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	if err := db.Create(&models.MenuIngredient{MenuItemID: menuItem.ID, InventoryItemID: cheese.ID, Quantity: 50, Unit: units.Gram}).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}

	h := NewOrderHandler(services.NewOrderService(db, testLogger()))

	w := httptest.NewRecorder()
	h.Create(w, request(t, id, http.MethodPost, "/orders",
		fmt.Sprintf(`{"items":[{"menu_item_id":%d,"quantity":2}]}`, menuItem.ID), nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var order models.Order
	decodeBody(t, w, &order)
	if order.Number != "INV0001" || order.Total != 18.4 { // 16 + 10% tax + 5% service
		t.Fatalf("order: number=%s total=%v", order.Number, order.Total)
	}

	// Deduction happened.
	var stocked models.InventoryItem
	if err := db.First(&stocked, cheese.ID).Error; err != nil {
		t.Fatalf("reload cheese: %v", err)
	}
	if stocked.CurrentStock != 900 {
		t.Fatalf("cheese stock: %v", stocked.CurrentStock)
	}

	orderID := fmt.Sprint(order.ID)

	// Void without a reason is rejected.
	w = httptest.NewRecorder()
	h.Void(w, request(t, id, http.MethodPost, "/orders/"+orderID+"/void", `{"reason":""}`, map[string]string{"id": orderID}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("void without reason: %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.Void(w, request(t, id, http.MethodPost, "/orders/"+orderID+"/void",
		`{"reason":"wrong table"}`, map[string]string{"id": orderID}))
	if w.Code != http.StatusOK {
		t.Fatalf("void: %d %s", w.Code, w.Body.String())
	}
	if err := db.First(&stocked, cheese.ID).Error; err != nil {
		t.Fatalf("reload cheese: %v", err)
	}
	if stocked.CurrentStock != 1000 {
		t.Fatalf("cheese stock after void: %v", stocked.CurrentStock)
	}

	// Voiding twice surfaces as a conflict.
	w = httptest.NewRecorder()
	h.Void(w, request(t, id, http.MethodPost, "/orders/"+orderID+"/void",
		`{"reason":"again"}`, map[string]string{"id": orderID}))
	if w.Code != http.StatusConflict {
		t.Fatalf("double void: %d", w.Code)
	}
}

func TestOrderHandlerPaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	rest, id := testTenant(t, db)
	menuItem := &models.MenuItem{RestaurantID: rest.ID, Name: "Soup", Price: 6, IsAvailable: true}
	if err := db.Create(menuItem).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	h := NewOrderHandler(services.NewOrderService(db, testLogger()))

	w := httptest.NewRecorder()
	h.Create(w, request(t, id, http.MethodPost, "/orders",
		fmt.Sprintf(`{"items":[{"menu_item_id":%d,"quantity":1}]}`, menuItem.ID), nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var order models.Order
	decodeBody(t, w, &order)
	orderID := fmt.Sprint(order.ID)

	w = httptest.NewRecorder()
	h.ProcessPayment(w, request(t, id, http.MethodPost, "/orders/"+orderID+"/payment",
		`{"method":"barter"}`, map[string]string{"id": orderID}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad method: %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ProcessPayment(w, request(t, id, http.MethodPost, "/orders/"+orderID+"/payment",
		`{"method":"card"}`, map[string]string{"id": orderID}))
	if w.Code != http.StatusOK {
		t.Fatalf("pay: %d %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &order)
	if order.PaymentStatus != models.PaymentPaid {
		t.Fatalf("payment status: %s", order.PaymentStatus)
	}
}

func TestTableQRCode(t *testing.T) {
	db := setupTestDB(t)
	rest, id := testTenant(t, db)
	tables := services.NewTableService(db, testLogger())
	settings := services.NewSettingsService(db)
	h := NewTableHandler(tables, settings)

	table := &models.Table{RestaurantID: rest.ID, Number: 7, Capacity: 4, IsActive: true}
	if err := tables.Create(t.Context(), table); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	tableID := fmt.Sprint(table.ID)

	// Without a configured ordering URL the QR cannot be issued.
	w := httptest.NewRecorder()
	h.QRCode(w, request(t, id, http.MethodGet, "/tables/"+tableID+"/qr", "", map[string]string{"id": tableID}))
	if w.Code != http.StatusConflict {
		t.Fatalf("unconfigured: %d", w.Code)
	}

	if _, err := settings.UpdateRestaurant(t.Context(), rest.ID, &models.RestaurantSettings{
		Currency: "USD", Timezone: "UTC", OrderingBaseURL: "https://order.example.com/handler-test",
	}); err != nil {
		t.Fatalf("configure url: %v", err)
	}

	w = httptest.NewRecorder()
	h.QRCode(w, request(t, id, http.MethodGet, "/tables/"+tableID+"/qr", "", map[string]string{"id": tableID}))
	if w.Code != http.StatusOK {
		t.Fatalf("qr: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: %s", ct)
	}
	if len(w.Body.Bytes()) < 8 || string(w.Body.Bytes()[1:4]) != "PNG" {
		t.Fatal("body is not a PNG")
	}

	// Chair out of range.
	w = httptest.NewRecorder()
	h.QRCode(w, request(t, id, http.MethodGet, "/tables/"+tableID+"/qr?chair=9", "", map[string]string{"id": tableID}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("chair out of range: %d", w.Code)
	}
}

func TestRegisterRestaurantHandler(t *testing.T) {
	db := setupTestDB(t)
	accounts := services.NewAccountService(db, testLogger())
	h := NewRestaurantHandler(accounts, services.NewSettingsService(db), services.NewReportService(db))
	adminID := auth.Identity{UserID: 1, Role: models.RoleAdmin}

	w := httptest.NewRecorder()
	h.Register(w, request(t, adminID, http.MethodPost, "/admin/restaurants",
		`{"name":"New Place","slug":"new-place","owner_email":"o@new.test","owner_name":"O","owner_password":"long-enough-pw"}`, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	// Short password fails validation before touching the service.
	w = httptest.NewRecorder()
	h.Register(w, request(t, adminID, http.MethodPost, "/admin/restaurants",
		`{"name":"Other","slug":"other","owner_email":"o@other.test","owner_name":"O","owner_password":"short"}`, nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("short password: %d", w.Code)
	}

	// Duplicate slug maps to 409.
	w = httptest.NewRecorder()
	h.Register(w, request(t, adminID, http.MethodPost, "/admin/restaurants",
		`{"name":"New Place 2","slug":"new-place","owner_email":"o2@new.test","owner_name":"O2","owner_password":"long-enough-pw"}`, nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate slug: %d", w.Code)
	}
}
