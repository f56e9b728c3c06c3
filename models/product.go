package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Product is one row of the catalog, or one row extracted from a rendered
// product table.
type Product struct {
	Name     string `json:"name" yaml:"name"`
	Quantity Number `json:"quantity" yaml:"quantity"`
	Price    Number `json:"price" yaml:"price"`
}

// Number is a JSON number that can also hold NaN, the sentinel for a table
// cell that did not parse. NaN and ±Inf encode as null; null decodes as NaN.
type Number float64

// NaN returns the not-a-number sentinel.
func NaN() Number { return Number(math.NaN()) }

// IsNaN reports whether n is the not-a-number sentinel.
func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NaN()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) String() string {
	if n.IsNaN() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// CloneProducts returns a copy of ps that shares no backing array with it.
// A nil input yields an empty, non-nil slice so it encodes as [].
func CloneProducts(ps []Product) []Product {
	out := make([]Product, len(ps))
	copy(out, ps)
	return out
}
