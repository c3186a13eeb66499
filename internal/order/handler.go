package order

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgOutOfStock  = "This item is out of stock"
	msgSystemsDown = "An error occurred and some of our systems are down, please try again later."
)

// Handler exposes order placement over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/order", h.PlaceOrder)
}

// PlaceOrder accepts an order request and renders the protocol outcome as a
// user-facing message. Internal errors never reach the response body.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid order request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid order request.")
		return
	}

	_, err := h.service.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemOutOfStock):
			c.String(http.StatusConflict, msgOutOfStock)
		case errors.Is(err, ErrCatalogUnavailable):
			c.String(http.StatusServiceUnavailable, msgSystemsDown)
		default:
			c.String(http.StatusInternalServerError, msgSystemsDown)
		}
		return
	}

	c.String(http.StatusOK, fmt.Sprintf(
		"Order has been placed successfully! It's on its way to: %s at %s",
		req.Name, req.Address,
	))
}
