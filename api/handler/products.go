package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shelfcheck/catalog"
	"github.com/use-agent/shelfcheck/models"
)

// Products returns a handler for GET /api/products.
//
// The catalog file is re-read on every request and served as-is.
func Products(cr *catalog.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := cr.Products()
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", products)
	}
}

// respondCatalogError maps a CatalogError to 404 (missing file) or 500.
func respondCatalogError(c *gin.Context, err error) {
	var ce *models.CatalogError
	if !errors.As(err, &ce) {
		slog.Error("catalog read failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal server error",
			Message: err.Error(),
			Code:    models.ErrCodeInternal,
		})
		return
	}

	slog.Error("failed to serve catalog", "path", ce.Path, "code", ce.Code, "error", ce.Err)

	status := http.StatusInternalServerError
	if ce.Code == models.ErrCodeNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, ce.ToResponse())
}
