package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcart "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/cart"
	apporder "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/order"
	apppayment "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/payment"
	appreturns "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/returns"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/id"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/memory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/clock"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier always reports the configured outcome.
type stubVerifier struct{ ok bool }

func (v stubVerifier) Verify(ctx context.Context, orderID string) (bool, error) {
	return v.ok, nil
}

func setupApp(t *testing.T, verified bool) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct("p-1", 5, decimal.RequireFromString("10.00"))

	idGen := id.NewUUIDGenerator()
	clk := clock.System()
	cfg := apppayment.Config{PollInterval: time.Millisecond, PollAttempts: 2, HardTimeout: time.Second}

	handler := NewHandler(
		appcart.NewService(store.Stores(), idGen),
		apporder.NewService(store, idGen, clk, nil),
		apppayment.NewService(store, stubVerifier{ok: verified}, clk, cfg, nil, nil),
		appreturns.NewService(store, idGen, clk, 30),
	)

	app := fiber.New()
	handler.Register(app)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, target, customer string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if customer != "" {
		req.Header.Set("X-Customer-ID", customer)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestMissingCustomerHeader(t *testing.T) {
	app, _ := setupApp(t, true)

	resp, body := doJSON(t, app, "POST", "/checkout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	app, _ := setupApp(t, true)

	resp, body := doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestAddLineAndCheckout(t *testing.T) {
	app, _ := setupApp(t, true)

	resp, body := doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = doJSON(t, app, "GET", "/cart", "cust-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "20.00", body["total"])

	resp, body = doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	orderID, _ := body["order_id"].(string)
	require.NotEmpty(t, orderID)

	resp, body = doJSON(t, app, "GET", "/orders/"+orderID, "cust-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", body["order_status"])
	assert.Equal(t, "pending", body["payment_status"])
}

func TestAddLine_InsufficientStock(t *testing.T) {
	app, _ := setupApp(t, true)

	resp, _ := doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 9})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessPayment_Success(t *testing.T) {
	app, _ := setupApp(t, true)

	_, _ = doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 1})
	_, body := doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	orderID := body["order_id"].(string)

	resp, body := doJSON(t, app, "POST", "/orders/"+orderID+"/payment", "cust-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "paid", body["order_status"])
	assert.Equal(t, "paid", body["payment_status"])
}

func TestProcessPayment_Failure(t *testing.T) {
	app, _ := setupApp(t, false)

	_, _ = doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 1})
	_, body := doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	orderID := body["order_id"].(string)

	resp, body := doJSON(t, app, "POST", "/orders/"+orderID+"/payment", "cust-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "pending", body["order_status"])
	assert.Equal(t, "failed", body["payment_status"])
}

func TestProcessPayment_UnknownOrder(t *testing.T) {
	app, _ := setupApp(t, true)

	resp, _ := doJSON(t, app, "POST", "/orders/missing/payment", "cust-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCancelTwice(t *testing.T) {
	app, _ := setupApp(t, true)

	_, _ = doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 1})
	_, body := doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	orderID := body["order_id"].(string)

	resp, body := doJSON(t, app, "POST", "/orders/"+orderID+"/cancel", "cust-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", body["order_status"])

	resp, _ = doJSON(t, app, "POST", "/orders/"+orderID+"/cancel", "cust-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestReturn_WrongCustomer(t *testing.T) {
	app, store := setupApp(t, true)

	_, _ = doJSON(t, app, "POST", "/cart/items", "cust-1",
		map[string]any{"product_id": "p-1", "sku": "SKU-1", "quantity": 1})
	_, body := doJSON(t, app, "POST", "/checkout", "cust-1", nil)
	orderID := body["order_id"].(string)

	_, _ = doJSON(t, app, "POST", "/orders/"+orderID+"/payment", "cust-1", nil)
	_, _ = doJSON(t, app, "POST", "/orders/"+orderID+"/delivery", "cust-1", nil)

	entity, err := store.Stores().Orders.Get(context.Background(), orderID)
	require.NoError(t, err)
	lineID := entity.Lines[0].ID

	resp, _ := doJSON(t, app, "POST", "/returns", "cust-2",
		map[string]any{"order_item_id": lineID, "reason": "not mine"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/returns", "cust-1",
		map[string]any{"order_item_id": lineID, "reason": "wrong size"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "requested", body["return_status"])
}
