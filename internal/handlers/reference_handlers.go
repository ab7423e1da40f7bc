package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentMethodInput struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Details string `json:"details" form:"details"`
}

type DeliveryServiceInput struct {
	Name                  string `json:"name" form:"name" binding:"required,max=100"`
	Price                 string `json:"price" form:"price" binding:"required"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time" form:"estimated_delivery_time" binding:"required,max=100"`
	Address               string `json:"address" form:"address" binding:"max=255"`
	PostalCode            string `json:"postal_code" form:"postal_code" binding:"max=20"`
}

func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	methods, err := h.Store.ListPaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

func (h *Handlers) CreatePaymentMethod(c *gin.Context) {
	var input PaymentMethodInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	method, err := h.Store.CreatePaymentMethod(c.Request.Context(), input.Name, input.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment method created", "payment_method": method})
}

func (h *Handlers) DeletePaymentMethod(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeletePaymentMethod(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}

func (h *Handlers) ListDeliveryServices(c *gin.Context) {
	services, err := h.Store.ListDeliveryServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery_services": services})
}

func (h *Handlers) CreateDeliveryService(c *gin.Context) {
	var input DeliveryServiceInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	service, err := h.Store.CreateDeliveryService(c.Request.Context(), store.NewDeliveryService{
		Name:                  input.Name,
		Price:                 price,
		EstimatedDeliveryTime: input.EstimatedDeliveryTime,
		Address:               input.Address,
		PostalCode:            input.PostalCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Delivery service created", "delivery_service": service})
}

func (h *Handlers) DeleteDeliveryService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteDeliveryService(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery service deleted"})
}
