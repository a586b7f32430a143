package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"shop/internal/handlers"
	"shop/internal/middleware"
	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestMain suppresses handler logging for cleaner test output.
func TestMain(m *testing.M) {
	log.SetOutput(ioutil.Discard)
	os.Exit(m.Run())
}

// setupApp builds a Fiber app over a per-test in-memory SQLite database with
// the full handler/service/repository stack, mirroring the production wiring.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))

	cartRepo := repositories.NewGORMCartRepository()
	ledger := repositories.NewGORMInventoryLedger()
	productRepo := repositories.NewGORMProductRepository()
	orderRepo := repositories.NewGORMOrderRepository()
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(db, productRepo, cartRepo, ledger)
	cartService := services.NewCartService(db, cartRepo, ledger)
	checkoutService := services.NewCheckoutService(db, cartRepo, ledger, orderRepo, nil)
	orderService := services.NewOrderService(db, orderRepo)
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(productService).RegisterRoutes(protectedRoutes)
	handlers.NewCartHandler(cartService).RegisterRoutes(protectedRoutes)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(protectedRoutes)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protectedRoutes)

	return app, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New().String(),
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.New().String()[:6],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// doJSON performs a request against app and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

// registerAndLogin registers a fresh user and returns a usable token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// The whole purchase flow over HTTP: fill the cart, hit the stock limit,
// submit bad shipping info, then check out for real and read the order back.
func TestCartCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	product := seedProduct(t, db, "Test Laptop", 2, "1000.00")
	token := registerAndLogin(t, app, "shopper")

	// Two units fit
	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token,
			map[string]string{"product_id": product.ID})
		assert.Equal(t, http.StatusOK, status)
	}

	status, cart := doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, status)
	items, ok := cart["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "2000", cart["total"])

	// The third one does not
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token,
		map[string]string{"product_id": product.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "stock_limit_exceeded", body["kind"])
	assert.Equal(t, float64(0), body["available"])

	// Non-numeric phone is rejected before anything is touched
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout/", token, map[string]string{
		"full_name": "Jane Doe",
		"phone":     "not-a-number",
		"address":   "1 Main Street",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	fieldErrors, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "Phone")

	// The checkout page shows the cart snapshot
	status, preview := doJSON(t, app, http.MethodGet, "/api/v1/checkout/", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2000", preview["total"])

	// A valid submission creates the order
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/checkout/", token, map[string]string{
		"full_name": "Jane Doe",
		"phone":     "13800138000",
		"address":   "1 Main Street",
	})
	assert.Equal(t, http.StatusCreated, status)
	orderID, _ := body["order_id"].(string)
	require.NotEmpty(t, orderID)

	// The order is readable with its snapshotted items
	status, order := doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", order["status"])
	orderItems, ok := order["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, orderItems, 1)
	first := orderItems[0].(map[string]interface{})
	assert.Equal(t, "Test Laptop", first["product_name"])
	assert.Equal(t, float64(2), first["quantity"])

	// The cart is empty again and another checkout is refused
	status, cart = doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, cart["items"])
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/checkout/", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Another user cannot see the order, not even its existence
	otherToken := registerAndLogin(t, app, "stranger")
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCartAddValidation(t *testing.T) {
	app, db := setupApp(t)
	token := registerAndLogin(t, app, "validator")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token,
		map[string]string{"product_id": "no-such-product"})
	assert.Equal(t, http.StatusNotFound, status)

	// An out-of-stock product reports its kind
	empty := seedProduct(t, db, "Sold Out", 0, "10.00")
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token,
		map[string]string{"product_id": empty.ID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "out_of_stock", body["kind"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/checkout/", "/api/v1/orders/", "/api/v1/products"} {
		status, _ := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "path %s", path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrderStatusEndpoint(t *testing.T) {
	app, db := setupApp(t)
	product := seedProduct(t, db, "Test Monitor", 5, "200.00")
	token := registerAndLogin(t, app, "buyer")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart/add", token,
		map[string]string{"product_id": product.ID})
	require.Equal(t, http.StatusOK, status)
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout/", token, map[string]string{
		"full_name": "Jane Doe",
		"phone":     "13800138000",
		"address":   "1 Main Street",
	})
	require.Equal(t, http.StatusCreated, status)
	orderID := body["order_id"].(string)

	// pending -> paid is fine
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", token,
		map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusOK, status)

	// going back is not
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", token,
		map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, status)

	// unknown statuses are rejected outright
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", token,
		map[string]string{"status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, status)

	// another user cannot move the order, and cannot tell it exists
	otherToken := registerAndLogin(t, app, "meddler")
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", otherToken,
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paid", body["status"])
}
