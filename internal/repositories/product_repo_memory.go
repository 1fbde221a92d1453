package repositories

import (
	"context"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products in map order.
func (r *MemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := parseUUID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product under a fresh ID.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.New().String()
	r.products[product.ID] = *product
	return nil
}

// Update merges the patch into an existing product and returns the result.
func (r *MemoryProductRepository) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if err := parseUUID(id); err != nil {
		return nil, err
	}
	changes, err := patch.Coerce()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	changes.Apply(&product)
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	if err := parseUUID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// Ping always succeeds.
func (r *MemoryProductRepository) Ping(ctx context.Context) error {
	return nil
}

// Driver returns "memory".
func (r *MemoryProductRepository) Driver() string {
	return "memory"
}

// Len returns the number of stored products.
func (r *MemoryProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
