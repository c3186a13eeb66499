package order

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func testOrderRouter(t *testing.T, stock StockClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zaptest.NewLogger(t)
	service := NewService(NewStore(), &fakePublisher{}, stock, logger, "order-service")
	router := gin.New()
	NewHandler(service, logger).Register(router)
	return router
}

func postOrder(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPlaceOrderEndpointSuccess(t *testing.T) {
	router := testOrderRouter(t, &fakeStockClient{stock: 10})

	w := postOrder(router, `{"item_id":1,"name":"Ada","address":"1 Main St","quantity":2}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"Order has been placed successfully! It's on its way to: Ada at 1 Main St",
		w.Body.String())
}

func TestPlaceOrderEndpointOutOfStock(t *testing.T) {
	router := testOrderRouter(t, &fakeStockClient{stock: 1})

	w := postOrder(router, `{"item_id":1,"name":"Ada","address":"1 Main St","quantity":5}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This item is out of stock", w.Body.String())
}

func TestPlaceOrderEndpointCatalogDown(t *testing.T) {
	router := testOrderRouter(t, &fakeStockClient{err: errors.New("connection refused")})

	w := postOrder(router, `{"item_id":1,"name":"Ada","address":"1 Main St","quantity":1}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t,
		"An error occurred and some of our systems are down, please try again later.",
		w.Body.String())
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	router := testOrderRouter(t, &fakeStockClient{stock: 10})

	for name, body := range map[string]string{
		"not json":         `not json`,
		"missing name":     `{"item_id":1,"address":"1 Main St","quantity":1}`,
		"missing address":  `{"item_id":1,"name":"Ada","quantity":1}`,
		"zero quantity":    `{"item_id":1,"name":"Ada","address":"1 Main St","quantity":0}`,
		"missing item id":  `{"name":"Ada","address":"1 Main St","quantity":1}`,
		"missing quantity": `{"item_id":1,"name":"Ada","address":"1 Main St"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := postOrder(router, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid order request.", w.Body.String())
		})
	}
}
