package verifier

import (
	"errors"
	"fmt"
	"os"

	"github.com/use-agent/shelfcheck/models"
	"gopkg.in/yaml.v3"
)

// DefaultExpected returns the dataset the reference product page renders,
// in display order.
func DefaultExpected() []models.Product {
	return []models.Product{
		{Name: "Laptop", Quantity: 15, Price: 1200.50},
		{Name: "Mouse", Quantity: 50, Price: 15.99},
		{Name: "Monitor 27\"", Quantity: 10, Price: 350.00},
		{Name: "Teclado Mecánico", Quantity: 25, Price: 75.25},
	}
}

// LoadExpected reads an ordered expected dataset from a YAML file. JSON is
// valid YAML, so a catalog-style JSON array works too.
func LoadExpected(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expected dataset: %w", err)
	}

	var products []models.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse expected dataset %s: %w", path, err)
	}
	if len(products) == 0 {
		return nil, errors.New("expected dataset " + path + " has no rows")
	}
	return products, nil
}
