package repository

import "proview-backend/internal/product/domain"

// ProductRepository defines the data access surface for products
type ProductRepository interface {
	FindByID(id string) (*domain.Product, error)
	// FindOrCreateByName resolves a canonical product name to a row,
	// creating it on first sight. Matching is case-insensitive.
	FindOrCreateByName(name string) (*domain.Product, error)
}
