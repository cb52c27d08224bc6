package checkout

import (
	"errors"
	"net/http"

	"hema-storefront/internal/checkout"
	"hema-storefront/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CartItems interface {
	Items() []model.CartItem
}

type Handler struct {
	cart       CartItems
	calculator checkout.Calculator
}

func New(cart CartItems, calculator checkout.Calculator) *Handler {
	return &Handler{
		cart:       cart,
		calculator: calculator,
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/checkout/quote", h.Quote)
	rg.POST("/checkout/confirm", h.Confirm)
}

type orderRequest struct {
	DeliveryMethod string           `json:"deliveryMethod"`
	PaymentMethod  string           `json:"paymentMethod"`
	Address        checkout.Address `json:"address"`
}

type quoteResponse struct {
	Items          []model.CartItem `json:"items"`
	DeliveryMethod string           `json:"deliveryMethod"`
	Subtotal       string           `json:"subtotal"`
	DeliveryFee    string           `json:"deliveryFee"`
	Total          string           `json:"total"`
	TotalFormatted string           `json:"totalFormatted"`
}

func newQuoteResponse(items []model.CartItem, method checkout.DeliveryMethod, q checkout.Quote) quoteResponse {
	return quoteResponse{
		Items:          items,
		DeliveryMethod: string(method),
		Subtotal:       q.Subtotal.StringFixed(2),
		DeliveryFee:    q.DeliveryFee.StringFixed(2),
		Total:          q.Total.StringFixed(2),
		TotalFormatted: checkout.FormatBRL(q.Total),
	}
}

// Quote prices the current cart for the requested delivery method.
func (h *Handler) Quote(c *gin.Context) {
	req, ok := bindOrder(c)
	if !ok {
		return
	}
	method, err := checkout.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := h.cart.Items()
	c.JSON(http.StatusOK, newQuoteResponse(items, method, h.calculator.Quote(items, method)))
}

// Confirm acknowledges the order for the current cart. The cart is not modified.
func (h *Handler) Confirm(c *gin.Context) {
	req, ok := bindOrder(c)
	if !ok {
		return
	}
	delivery, err := checkout.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := checkout.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := h.cart.Items()
	conf, err := h.calculator.Confirm(checkout.Order{
		Items:    items,
		Delivery: delivery,
		Payment:  payment,
		Address:  req.Address,
	})
	switch {
	case errors.Is(err, checkout.ErrAddressRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please fill in the street and number for delivery."})
		return
	case err != nil:
		log.Error().Err(err).Msg("checkout: confirm failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Info().
		Str("delivery", string(conf.Delivery)).
		Str("payment", string(conf.Payment)).
		Str("total", conf.Quote.Total.StringFixed(2)).
		Msg("order confirmed")

	c.JSON(http.StatusOK, gin.H{
		"confirmed":     true,
		"message":       conf.Message,
		"paymentMethod": conf.Payment,
		"quote":         newQuoteResponse(items, conf.Delivery, conf.Quote),
	})
}

func bindOrder(c *gin.Context) (orderRequest, bool) {
	var req orderRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return req, false
	}
	return req, true
}
