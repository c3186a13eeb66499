package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgItemDoesNotExist = "This item does not exist."
const msgOutOfStockEverything = "We are out of stock on everything, sorry!"

// Handler exposes the catalog over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/catalog", h.GetCatalog)
	r.GET("/catalog/stock/:item_id", h.GetStock)
}

// GetCatalog lists purchasable items. An empty catalog renders a
// human-readable message instead of an empty array.
func (h *Handler) GetCatalog(c *gin.Context) {
	items := h.service.Items()
	if len(items) == 0 {
		c.String(http.StatusOK, msgOutOfStockEverything)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStock returns the raw stock count for one item. This endpoint is for
// service-to-service use and would not be exposed by an API gateway.
func (h *Handler) GetStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, msgItemDoesNotExist)
		return
	}

	stock, err := h.service.Stock(uint32(id))
	if err != nil {
		c.String(http.StatusNotFound, msgItemDoesNotExist)
		return
	}
	c.String(http.StatusOK, strconv.FormatUint(uint64(stock), 10))
}
