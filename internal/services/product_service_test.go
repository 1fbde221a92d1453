package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProductRepository) Driver() string {
	return "mock"
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event rabbitmq.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func ptr[T any](v T) *T { return &v }

func validInput() models.ProductInput {
	return models.ProductInput{
		Name:        ptr("Pen"),
		Description: ptr("Blue ink pen"),
		Price:       ptr(1.5),
		Category:    ptr("Office"),
		InStock:     ptr(true),
	}
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e rabbitmq.Event) bool { return e.Type == eventType })
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Description: "A", Price: 10.0, Category: "c", InStock: true},
		{ID: "2", Name: "Product B", Description: "B", Price: 20.0, Category: "c"},
	}

	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)

	// nil from the store becomes an empty list
	mockRepo.On("GetAll", mock.Anything).Return(nil, nil).Once()
	products, err = service.GetAllProducts(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	mockRepo.On("GetAll", mock.Anything).Return(nil, fmt.Errorf("connection refused")).Once()
	products, err = service.GetAllProducts(context.Background())
	assert.Error(t, err)
	assert.Nil(t, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0}

	mockRepo.On("GetByID", mock.Anything, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", mock.Anything, "99").Return(nil, models.ErrProductNotFound).Once()
	product, err = service.GetProductByID(context.Background(), "99")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, nil)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Product).ID = "generated"
		}).
		Return(nil).Once()
	events.On("Publish", eventOfType(services.EventProductCreated)).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "generated", product.ID)
	assert.Equal(t, "Pen", product.Name)
	assert.Equal(t, "Blue ink pen", product.Description)
	assert.Equal(t, 1.5, product.Price)
	assert.Equal(t, "Office", product.Category)
	assert.True(t, product.InStock)
	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)

	// Creation failure (e.g., database error) publishes nothing
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(context.Background(), validInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
	events.AssertNumberOfCalls(t, "Publish", 1)
}

func TestProductService_CreateProductPublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	events.On("Publish", mock.Anything).Return(errors.New("channel closed")).Once()

	_, err := service.CreateProduct(context.Background(), validInput())
	assert.NoError(t, err)
	events.AssertExpectations(t)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(in *models.ProductInput)
		field  string
	}{
		{"missing name", func(in *models.ProductInput) { in.Name = nil }, "name"},
		{"empty name", func(in *models.ProductInput) { in.Name = ptr("") }, "name"},
		{"missing description", func(in *models.ProductInput) { in.Description = nil }, "description"},
		{"empty description", func(in *models.ProductInput) { in.Description = ptr("") }, "description"},
		{"missing price", func(in *models.ProductInput) { in.Price = nil }, "price"},
		{"missing category", func(in *models.ProductInput) { in.Category = nil }, "category"},
		{"empty category", func(in *models.ProductInput) { in.Category = ptr("") }, "category"},
		{"missing inStock", func(in *models.ProductInput) { in.InStock = nil }, "inStock"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := services.NewProductService(mockRepo, nil, nil)

			in := validInput()
			tc.mutate(&in)

			product, err := service.CreateProduct(context.Background(), in)
			assert.Nil(t, product)

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.field}, verr.Fields)
			assert.Equal(t, services.ProductFieldsMessage, err.Error())
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_ValidateProductAcceptsZeroValues(t *testing.T) {
	service := services.NewProductService(new(MockProductRepository), nil, nil)

	in := validInput()
	in.Price = ptr(0.0)
	in.InStock = ptr(false)
	assert.NoError(t, service.ValidateProduct(in))

	in.Price = ptr(-3.0)
	assert.NoError(t, service.ValidateProduct(in))
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, nil)

	patch := models.ProductPatch{"price": 2.0}
	updatedProduct := &models.Product{ID: "1", Name: "Pen", Price: 2.0}

	mockRepo.On("Update", mock.Anything, "1", patch).Return(updatedProduct, nil).Once()
	events.On("Publish", eventOfType(services.EventProductUpdated)).Return(nil).Once()
	product, err := service.UpdateProduct(context.Background(), "1", patch)
	assert.NoError(t, err)
	assert.Equal(t, updatedProduct, product)

	// Unchecked values are handed to the store as is
	badPatch := models.ProductPatch{"price": "free"}
	mockRepo.On("Update", mock.Anything, "1", badPatch).Return(nil, fmt.Errorf("%w: price", models.ErrInvalidField)).Once()
	_, err = service.UpdateProduct(context.Background(), "1", badPatch)
	assert.ErrorIs(t, err, models.ErrInvalidField)

	mockRepo.On("Update", mock.Anything, "99", patch).Return(nil, models.ErrProductNotFound).Once()
	_, err = service.UpdateProduct(context.Background(), "99", patch)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, nil)

	mockRepo.On("Delete", mock.Anything, "1").Return(nil).Once()
	events.On("Publish", mock.MatchedBy(func(e rabbitmq.Event) bool {
		return e.Type == services.EventProductDeleted && e.ID == "1" && e.Data == nil
	})).Return(nil).Once()
	err := service.DeleteProduct(context.Background(), "1")
	assert.NoError(t, err)

	mockRepo.On("Delete", mock.Anything, "99").Return(models.ErrProductNotFound).Once()
	err = service.DeleteProduct(context.Background(), "99")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestProductService_StoreTimeout(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil).WithStoreTimeout(20 * time.Millisecond)

	mockRepo.On("GetByID", mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := service.GetProductByID(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mockRepo.AssertExpectations(t)
}
