package cart

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	cartSync "hema-storefront/internal/cart"
	"hema-storefront/internal/eventpublisher"
	"hema-storefront/internal/eventpublisher/event"
	"hema-storefront/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	snapshotEvent = "cart"
	eventBuffer   = 8
)

// Cart is the customer cart the handler operates on.
type Cart interface {
	Snapshot() model.CartSnapshot
	AddToCart(ctx context.Context, item model.CartItem) (model.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, nome string, d cartSync.Direction) (model.CartSnapshot, error)
	RemoveItem(ctx context.Context, nome string) (model.CartSnapshot, error)
	Clear(ctx context.Context) (model.CartSnapshot, error)
}

type ProductFinder interface {
	ByID(ctx context.Context, id string) (model.Product, bool)
}

type Handler struct {
	cart      Cart
	products  ProductFinder
	publisher eventpublisher.Publisher
}

func New(cart Cart, products ProductFinder, publisher eventpublisher.Publisher) *Handler {
	return &Handler{
		cart:      cart,
		products:  products,
		publisher: publisher,
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.Get)
	rg.DELETE("/cart", h.Clear)
	rg.POST("/cart/items", h.AddItem)
	rg.PATCH("/cart/items/:nome", h.UpdateQuantity)
	rg.DELETE("/cart/items/:nome", h.RemoveItem)
	rg.GET("/cart/events", h.Events)
}

func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Snapshot())
}

// addItemRequest either names a catalog product or carries a full line item.
type addItemRequest struct {
	ProductId string          `json:"productId"`
	Item      *model.CartItem `json:"item"`
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var item model.CartItem
	switch {
	case req.ProductId != "":
		p, ok := h.products.ByID(c.Request.Context(), req.ProductId)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		item = cartSync.ItemFromProduct(p)

	case req.Item != nil && strings.TrimSpace(req.Item.Nome) != "":
		item = *req.Item
		if item.QtdNumerica < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "qtd_numerica must be at least 1"})
			return
		}
		if item.Tipo == "" {
			item.Tipo = model.ItemKindUnit
		}
		if item.QtdDesc == "" {
			item.QtdDesc = model.DefaultQuantityDesc
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId or item is required"})
		return
	}

	snap, err := h.cart.AddToCart(c.Request.Context(), item)
	h.respond(c, http.StatusOK, snap, err)
}

type updateQuantityRequest struct {
	Direction string `json:"direction"`
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	d, err := cartSync.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be increase or decrease"})
		return
	}

	snap, err := h.cart.UpdateQuantity(c.Request.Context(), c.Param("nome"), d)
	h.respond(c, http.StatusOK, snap, err)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	snap, err := h.cart.RemoveItem(c.Request.Context(), c.Param("nome"))
	h.respond(c, http.StatusOK, snap, err)
}

func (h *Handler) Clear(c *gin.Context) {
	snap, err := h.cart.Clear(c.Request.Context())
	h.respond(c, http.StatusOK, snap, err)
}

// Events streams the cart as server-sent events, starting with its current state.
func (h *Handler) Events(c *gin.Context) {
	ch := make(chan event.Event, eventBuffer)
	h.publisher.Subscribe(ch)
	defer h.publisher.Unsubscribe(ch)

	c.SSEvent(snapshotEvent, h.cart.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("cart events: publisher error")
				return false
			}
			c.SSEvent(snapshotEvent, e.Message)
			return true
		}
	})
}

// respond writes the cart after a change. A failed write-through is reported with
// the unchanged cart so clients can restore their view.
func (h *Handler) respond(c *gin.Context, status int, snap model.CartSnapshot, err error) {
	if errors.Is(err, cartSync.ErrSyncFailed) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Could not save the cart, please try again.",
			"cart":  snap,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("cart handler: unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, snap)
}
