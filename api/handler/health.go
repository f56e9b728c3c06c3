package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shelfcheck/catalog"
	"github.com/use-agent/shelfcheck/models"
	"github.com/use-agent/shelfcheck/verifier"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /health.
//
// Reports "degraded" when the catalog file is not on disk.
func Health(cr *catalog.Reader, v *verifier.Verifier, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if _, err := os.Stat(cr.Path()); err != nil {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:              status,
			Uptime:              time.Since(startTime).Round(time.Second).String(),
			ActiveVerifications: v.Active(),
			CatalogPath:         cr.Path(),
			Version:             Version,
		})
	}
}
