package verifier

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/use-agent/shelfcheck/models"
)

// cellsPerRow is the only row shape accepted from the table.
const cellsPerRow = 3

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// ParseRows turns raw table rows into products. Rows that do not have
// exactly three cells are dropped without error.
func ParseRows(rows [][]string) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for _, cells := range rows {
		if len(cells) != cellsPerRow {
			continue
		}
		products = append(products, models.Product{
			Name:     cells[0],
			Quantity: ParseQuantity(cells[1]),
			Price:    ParsePrice(cells[2]),
		})
	}
	return products
}

// ParseQuantity reads the leading base-10 integer of s, skipping leading
// whitespace. Trailing text is ignored ("15 units" is 15). Text without a
// leading integer yields NaN.
func ParseQuantity(s string) models.Number {
	m := intPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return models.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return models.NaN()
	}
	return models.Number(f)
}

// ParsePrice strips every "$" and the first "," from s and reads the
// leading decimal number of what remains. Text without one yields NaN.
func ParsePrice(s string) models.Number {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.Replace(s, ",", "", 1)

	m := floatPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return models.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	// Out-of-range literals come back as ±Inf with ErrRange; keep the value.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return models.NaN()
	}
	return models.Number(f)
}
