package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shelfcheck/models"
	"github.com/use-agent/shelfcheck/verifier"
)

// Verify returns a handler for POST /api/verify.
//
//  1. Parse the body; an empty body counts as a missing url.
//  2. Run the verification. The run is detached from the request context:
//     once started it finishes or times out on its own.
//  3. 200 with the result on SUCCESS, 400 with the result on FAILURE.
func Verify(v *verifier.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyRequest
		if hasBody(c.Request) {
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "request body is not valid JSON",
					Message: err.Error(),
					Code:    models.ErrCodeInvalidInput,
				})
				return
			}
		}

		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "missing field 'url' in request body",
				Message: `send {"url": "<page to verify>"}`,
				Code:    models.ErrCodeInvalidInput,
			})
			return
		}

		slog.Info("verification requested", "url", req.URL)
		res := v.Verify(context.WithoutCancel(c.Request.Context()), req.URL)

		status := http.StatusOK
		if !res.Succeeded() {
			status = http.StatusBadRequest
		}
		c.JSON(status, res)
	}
}

// hasBody reports whether r may carry a body. Length -1 means unknown.
func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
