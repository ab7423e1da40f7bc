package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AddToCartInput struct {
	Quantity *int `json:"quantity" form:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" form:"quantity" binding:"required"`
}

// CartFormInput is the body of POST /cart: either a removal or a quantity update.
type CartFormInput struct {
	RemoveItemID *int64 `json:"remove_item_id" form:"remove_item_id"`
	ItemID       *int64 `json:"item_id" form:"item_id"`
	Quantity     *int   `json:"quantity" form:"quantity"`
}

// GetCart handles GET /cart.
func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.Store.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MutateCart handles POST /cart and answers with the updated cart.
func (h *Handlers) MutateCart(c *gin.Context) {
	var input CartFormInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	ctx := c.Request.Context()
	userID := currentUserID(c)

	switch {
	case input.RemoveItemID != nil:
		if err := h.Store.RemoveItem(ctx, userID, *input.RemoveItemID); err != nil {
			respondError(c, err)
			return
		}
	case input.ItemID != nil && input.Quantity != nil:
		if _, err := h.Store.UpdateItem(ctx, userID, *input.ItemID, *input.Quantity); err != nil {
			respondError(c, err)
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide remove_item_id, or item_id and quantity"})
		return
	}

	h.GetCart(c)
}

// AddToCart handles POST /add-to-cart/:product_id. Quantity defaults to 1.
func (h *Handlers) AddToCart(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}

	var input AddToCartInput
	if hasBody(c) {
		if err := c.ShouldBind(&input); err != nil {
			bindError(c, err)
			return
		}
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	item, err := h.Store.AddItem(c.Request.Context(), currentUserID(c), productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "item": item})
}

// UpdateCartItem handles POST /update-cart-item/:item_id.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.Store.UpdateItem(c.Request.Context(), currentUserID(c), itemID, *input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "item": item})
}

// RemoveFromCart handles POST /remove-from-cart/:item_id. It succeeds even
// when the item is already gone.
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		return
	}

	if err := h.Store.RemoveItem(c.Request.Context(), currentUserID(c), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
