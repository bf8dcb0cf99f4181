package repository

import (
	"errors"
	"strings"
	"time"

	"proview-backend/internal/product/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProductRepository implements ProductRepository using GORM
type gormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based ProductRepository
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) FindByID(id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *gormProductRepository) FindOrCreateByName(name string) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("product name is empty")
	}

	var product domain.Product
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product = domain.Product{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
