package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"
)

// UnavailableProductRepository stands in for a store that could not be
// reached at startup. Every call fails with models.ErrStoreUnavailable.
type UnavailableProductRepository struct {
	driver string
	cause  error
}

// NewUnavailableProductRepository records the driver and connection error.
func NewUnavailableProductRepository(driver string, cause error) *UnavailableProductRepository {
	return &UnavailableProductRepository{driver: driver, cause: cause}
}

func (r *UnavailableProductRepository) err() error {
	if r.cause == nil {
		return models.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, r.cause)
}

func (r *UnavailableProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.err()
}

func (r *UnavailableProductRepository) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) Delete(ctx context.Context, id string) error {
	return r.err()
}

func (r *UnavailableProductRepository) Ping(ctx context.Context) error {
	return r.err()
}

func (r *UnavailableProductRepository) Driver() string {
	return r.driver
}
