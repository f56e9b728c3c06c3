package models

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status              string `json:"status"` // "healthy" or "degraded"
	Uptime              string `json:"uptime"`
	ActiveVerifications int    `json:"active_verifications"`
	CatalogPath         string `json:"catalog_path"`
	Version             string `json:"version"`
}
