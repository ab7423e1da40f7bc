package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// Handlers holds all dependencies of the HTTP handlers.
type Handlers struct {
	Store     *store.Store
	Catalog   *cache.Catalog
	Tokens    *auth.TokenManager
	UploadDir string // Local directory served under /uploads
	BaseURL   string // Public origin used to build upload URLs
}

// respondError maps the store's error taxonomy to an HTTP status.
// Unexpected errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var missing *store.MissingFieldError
	switch {
	case errors.As(err, &missing):
		fields := make(gin.H, len(missing.Fields))
		for _, f := range missing.Fields {
			fields[f] = "This field is required."
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error(), "fields": fields})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrAuthFailure), errors.Is(err, store.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError reports a request that could not be decoded or failed its binding tags.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// currentUserID is the id AuthMiddleware stored in the context.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(middleware.UserIDKey)
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// hasBody reports whether the request carries anything to bind.
func hasBody(c *gin.Context) bool {
	return c.Request.ContentLength != 0
}

// Ping handles GET /ping. It also checks that the database answers.
func (h *Handlers) Ping(c *gin.Context) {
	if err := h.Store.DB().PingContext(c.Request.Context()); err != nil {
		log.Printf("health check: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong!"})
}
