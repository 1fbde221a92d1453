package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// DefaultStoreTimeout bounds every store call unless overridden.
const DefaultStoreTimeout = 10 * time.Second

// ProductFieldsMessage is the single message returned for any invalid
// create payload. It restates the whole contract rather than naming the
// failing field.
const ProductFieldsMessage = "Missing or invalid product fields. Required: name (string), description (string), price (number), category (string), inStock (boolean)."

// ValidationError is returned by CreateProduct before the store is touched.
type ValidationError struct {
	// Fields lists the JSON names of the fields that failed.
	Fields []string
}

func (e *ValidationError) Error() string {
	return ProductFieldsMessage
}

// EventPublisher publishes product lifecycle events.
type EventPublisher interface {
	Publish(event rabbitmq.Event) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	validate *validator.Validate
	timeout  time.Duration
	log      *zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil, in
// which case nothing is published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log *zerolog.Logger) *ProductService {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &ProductService{
		repo:     repo,
		events:   events,
		validate: newValidator(),
		timeout:  DefaultStoreTimeout,
		log:      log,
	}
}

// WithStoreTimeout sets the deadline applied to each store call. Zero
// disables it.
func (s *ProductService) WithStoreTimeout(d time.Duration) *ProductService {
	s.timeout = d
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report JSON names so logs match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *ProductService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ValidateProduct checks a create payload. It returns a *ValidationError
// when any field is missing or of the wrong type.
func (s *ProductService) ValidateProduct(in models.ProductInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field())
	}
	return verr
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates the payload and stores a new product under a
// store-assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := s.ValidateProduct(in); err != nil {
		return nil, err
	}

	// the store assigns the ID
	product := in.Product()
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.repo.Create(storeCtx, product); err != nil {
		return nil, err
	}

	s.publish(EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct merges patch into the product without validating it here;
// the store coerces and checks the values it is given.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	product, err := s.repo.Update(storeCtx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.repo.Delete(storeCtx, id); err != nil {
		return err
	}

	s.publish(EventProductDeleted, id, nil)
	return nil
}

// StoreDriver names the active store backend.
func (s *ProductService) StoreDriver() string {
	return s.repo.Driver()
}

// PingStore reports whether the store is reachable.
func (s *ProductService) PingStore(ctx context.Context) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.Ping(ctx)
}

// publish never fails the caller; a lost event is only logged.
func (s *ProductService) publish(eventType, id string, product *models.Product) {
	if s.events == nil {
		return
	}
	event := rabbitmq.Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	if product != nil {
		event.Data = product
	}
	// The write already succeeded; a lost event is logged, not returned.
	if err := s.events.Publish(event); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Str("id", id).Msg("failed to publish product event")
	}
}
