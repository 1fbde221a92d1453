package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// productDocument is the stored shape of a product in MongoDB.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	InStock     bool               `bson:"inStock"`
}

func (d productDocument) product() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		InStock:     d.InStock,
	}
}

// ConnectMongo creates a client for uri. The driver connects lazily, so a
// nil error does not mean the server is reachable; use Ping for that.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return client, nil
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoProductRepository creates a repository over database.collection.
func NewMongoProductRepository(client *mongo.Client, database, collection string) *MongoProductRepository {
	return &MongoProductRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, err)
	}
	return oid, nil
}

// GetAll retrieves all products in natural order.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

// GetByID retrieves a single product by its ObjectID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product := doc.product()
	return &product, nil
}

// Create inserts a new product; the ObjectID is generated client side.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = doc.ID.Hex()
	return nil
}

// Update applies the patch with $set and returns the document after the
// update.
func (r *MongoProductRepository) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	changes, err := patch.Coerce()
	if err != nil {
		return nil, err
	}
	// An empty $set is rejected by the server, so a no-op patch is a read.
	if changes.Empty() {
		return r.GetByID(ctx, id)
	}

	// Only the fields present in the patch are written.
	set := bson.M{}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Price != nil {
		set["price"] = *changes.Price
	}
	if changes.Category != nil {
		set["category"] = *changes.Category
	}
	if changes.InStock != nil {
		set["inStock"] = *changes.InStock
	}

	// Return the document as it is after the update.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	product := doc.product()
	return &product, nil
}

// Delete removes a product by its ObjectID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Ping checks that the primary is reachable.
func (r *MongoProductRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Driver returns "mongo".
func (r *MongoProductRepository) Driver() string {
	return "mongo"
}
