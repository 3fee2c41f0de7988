package client

import (
	"context"
	"net/url"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// ProductService manages products over the JSON API.
type ProductService struct {
	rest resourceClient
}

// RetrieveProducts returns the products whose type is in types. An empty set
// returns an empty list without contacting the server.
func (s *ProductService) RetrieveProducts(ctx context.Context, types []model.ProductType) ([]model.Product, error) {
	if len(types) == 0 {
		return []model.Product{}, nil
	}

	query := url.Values{}
	for _, t := range types {
		query.Add("type", string(t))
	}

	return s.list(ctx, query)
}

// RetrieveAllProducts returns every product.
func (s *ProductService) RetrieveAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.list(ctx, nil)
}

func (s *ProductService) list(ctx context.Context, query url.Values) ([]model.Product, error) {
	products := []model.Product{}
	if err := s.rest.list(ctx, query, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// RetrieveProduct returns the product with id. A missing product yields *NotFoundError.
func (s *ProductService) RetrieveProduct(ctx context.Context, id int) (model.Product, error) {
	var product model.Product
	err := s.rest.get(ctx, id, &product)
	return product, err
}

// StoreNewProduct creates p, which must not carry an id, and returns the assigned id.
func (s *ProductService) StoreNewProduct(ctx context.Context, p model.Product) (int, error) {
	return s.rest.create(ctx, p)
}

// UpdateProduct replaces the product identified by p's id.
func (s *ProductService) UpdateProduct(ctx context.Context, p model.Product) error {
	id, ok := p.Identity()
	if !ok {
		return ErrMissingID
	}
	return s.rest.replace(ctx, id, p)
}

// DeleteProduct removes the product with id.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	return s.rest.delete(ctx, id)
}
