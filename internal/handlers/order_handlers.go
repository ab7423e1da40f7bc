package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// CheckoutSummary handles GET /checkout.
func (h *Handlers) CheckoutSummary(c *gin.Context) {
	summary, err := h.Store.CheckoutSummary(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Checkout handles POST /checkout. Required fields are checked by the store
// so that every missing one is reported, after the empty cart check.
func (h *Handlers) Checkout(c *gin.Context) {
	var input store.CheckoutInput
	if hasBody(c) {
		if err := c.ShouldBind(&input); err != nil {
			bindError(c, err)
			return
		}
	}

	order, err := h.Store.Checkout(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"order":    order,
	})
}

// ListOrders handles GET /orders.
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.Store.ListOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles GET /orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.Store.GetOrder(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
