package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data access.
//
// GetByID, Update and Delete return models.ErrProductNotFound when no
// product has the given ID, and wrap models.ErrInvalidID when the ID is not
// well formed for the store.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Driver() string
}

// parseUUID checks that id is a UUID, the ID space of the memory and SQL
// stores.
func parseUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, err)
	}
	return nil
}
