package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors for Product.
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNameTooLong        = errors.New("name cannot exceed 255 characters")
	ErrInvalidProductType = errors.New("unknown product type")
)

// ProductType is the closed set of product type tags.
type ProductType string

// Product types.
const (
	ProductTypeStandard   ProductType = "STANDARD"
	ProductTypePremium    ProductType = "PREMIUM"
	ProductTypeLimited    ProductType = "LIMITED"
	ProductTypeDiscounted ProductType = "DISCOUNTED"
)

// ProductTypes returns every known product type.
func ProductTypes() []ProductType {
	return []ProductType{
		ProductTypeStandard,
		ProductTypePremium,
		ProductTypeLimited,
		ProductTypeDiscounted,
	}
}

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	for _, known := range ProductTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseProductType converts a query or flag value into a ProductType.
// Matching is case-insensitive.
func ParseProductType(s string) (ProductType, error) {
	t := ProductType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProductType, s)
	}
	return t, nil
}

// Product is served as JSON under /products.
type Product struct {
	ID   *int        `json:"id"`
	Name string      `json:"name"`
	Type ProductType `json:"type"`
}

// Identity returns the product id and whether it is set.
func (p Product) Identity() (int, bool) {
	if p.ID == nil {
		return 0, false
	}
	return *p.ID, true
}

// WithIdentity returns a copy of p carrying the given id.
func (p Product) WithIdentity(id int) Product {
	p.ID = &id
	return p
}

// TypeTag returns the product type as a plain string.
func (p Product) TypeTag() string {
	return string(p.Type)
}

// Validate checks if the Product has valid field values.
func (p Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}

	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidProductType, p.Type)
	}

	return nil
}
