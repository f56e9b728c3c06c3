package verifier

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/use-agent/shelfcheck/models"
)

// Equal reports whether extracted matches expected row for row: same
// length, same order, every field equal. Prices compare with ==, so NaN
// never matches and no tolerance is applied.
func Equal(extracted, expected []models.Product) bool {
	return cmp.Equal(extracted, expected, cmpopts.EquateEmpty())
}

// Diff renders the differences between expected (-) and extracted (+).
// It returns "" when the sequences are Equal.
func Diff(extracted, expected []models.Product) string {
	return cmp.Diff(expected, extracted, cmpopts.EquateEmpty())
}
