package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeParse        = "PARSE_ERROR"
	ErrCodeIO           = "IO_ERROR"
	ErrCodeInvalidInput = "VALIDATION_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-verification error response.
// Error is the human-readable failure, Message a hint on how to fix it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CatalogError is returned by the catalog reader. Code is one of
// ErrCodeNotFound, ErrCodeParse or ErrCodeIO.
type CatalogError struct {
	Code string
	Path string
	Err  error
}

func (e *CatalogError) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("catalog file not found: %s", e.Path)
	case ErrCodeParse:
		return fmt.Sprintf("catalog file %s is not valid JSON: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("reading catalog file %s: %v", e.Path, e.Err)
	}
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(code, path string, err error) *CatalogError {
	return &CatalogError{Code: code, Path: path, Err: err}
}

// Hint returns the operator-facing advice for the error code.
func (e *CatalogError) Hint() string {
	switch e.Code {
	case ErrCodeNotFound:
		return "run the normalization step to generate the catalog file first"
	case ErrCodeParse:
		return "the catalog file is corrupt or malformed; check its contents"
	default:
		return "internal server error"
	}
}

// ToResponse converts the error to its API-facing body.
func (e *CatalogError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Error(), Message: e.Hint(), Code: e.Code}
}
