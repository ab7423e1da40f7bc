package handlers

import (
	"net/http"

	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateProductInput is bound from a multipart form (with an optional
// "image" file) or from JSON.
type CreateProductInput struct {
	Name        string `json:"name" form:"name" binding:"required,max=100"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price" binding:"required"`
	Category    string `json:"category" form:"category"`
	Stock       int    `json:"stock" form:"stock" binding:"min=0"`
}

type PriceInput struct {
	Price string `json:"price" form:"price" binding:"required"`
}

// ListProducts handles GET /products?search=&category=. "q" is accepted as
// an alias of "search".
func (h *Handlers) ListProducts(c *gin.Context) {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}

	products, err := h.Store.ListProducts(c.Request.Context(), store.ProductFilter{
		Search:   search,
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// ProductsByCategory handles GET /category/:name.
func (h *Handlers) ProductsByCategory(c *gin.Context) {
	category := c.Param("name")
	products, err := h.Store.ListProducts(c.Request.Context(), store.ProductFilter{Category: category})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "products": products, "count": len(products)})
}

// GetProduct handles GET /product/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.Catalog.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListCategories handles GET /categories: the categories currently in use.
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// AllCategories handles GET /categories/all: every allowed category.
func (h *Handlers) AllCategories(c *gin.Context) {
	categories, err := h.Store.AllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateProduct handles POST /products (admin only).
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	var image string
	if file, err := c.FormFile("image"); err == nil {
		if image, err = h.saveImage(c, file, "product_images"); err != nil {
			respondError(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	product, err := h.Store.CreateProduct(ctx, store.NewProduct{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Category:    input.Category,
		Stock:       input.Stock,
		Image:       image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.Catalog.ProductCreated(ctx, product.Category)

	response := gin.H{"message": "Product created successfully", "product": product}
	if image != "" {
		response["imageUrl"] = h.publicURL(image)
	}
	c.JSON(http.StatusCreated, response)
}

// UpdateProductPrice handles PUT /products/:id/price (admin only). Orders
// already placed keep the price they were bought at.
func (h *Handlers) UpdateProductPrice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input PriceInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Store.SetProductPrice(ctx, id, price); err != nil {
		respondError(c, err)
		return
	}
	h.Catalog.ProductChanged(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "Price updated", "price": price.StringFixed(2)})
}
