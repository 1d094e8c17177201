package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type catalogRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewCatalog(db *mongo.Database) port.CatalogRepository {
	return &catalogRepository{
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var doc productDocument

	err := r.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, domain.NewProductNotFound(productID)
		}
		return domain.Product{}, fmt.Errorf("products.FindOne: %w", err)
	}

	return doc.toDomain()
}

func (r *catalogRepository) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("products.Find: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("product[%s]: %w", doc.ID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("categories.Find: %w", err)
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, domain.Category{ID: doc.ID, Name: doc.Name})
	}

	return categories, nil
}

func (r *catalogRepository) UpsertProduct(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}

	_, err = r.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("products.ReplaceOne: %w", err)
	}

	return nil
}

func (r *catalogRepository) UpsertCategory(ctx context.Context, category domain.Category) error {
	if category.ID == "" {
		return domain.NewValidationError("category id is empty")
	}

	doc := categoryDocument{ID: category.ID, Name: category.Name}

	_, err := r.categories.ReplaceOne(ctx, bson.M{"_id": category.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("categories.ReplaceOne: %w", err)
	}

	return nil
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	result, err := r.products.DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return false, fmt.Errorf("products.DeleteOne: %w", err)
	}

	return result.DeletedCount > 0, nil
}

// DecrementStock matches the product only while stock >= quantity, so the
// check and the $inc happen in one server-side operation.
func (r *catalogRepository) DecrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("decrement quantity must be positive, got %d", quantity)
	}

	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}}
	update := bson.M{"$inc": bson.M{"stock": -quantity}}

	stock, err := r.adjustStock(ctx, filter, update)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("adjustStock: %w", err)
	}

	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	return 0, domain.NewInsufficientStock(productID, quantity, product.Stock)
}

func (r *catalogRepository) IncrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("increment quantity must be positive, got %d", quantity)
	}

	stock, err := r.adjustStock(ctx, bson.M{"_id": productID}, bson.M{"$inc": bson.M{"stock": quantity}})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.NewProductNotFound(productID)
		}
		return 0, fmt.Errorf("adjustStock: %w", err)
	}

	return stock, nil
}

func (r *catalogRepository) adjustStock(ctx context.Context, filter, update bson.M) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"stock": 1})

	var doc struct {
		Stock int `bson:"stock"`
	}
	if err := r.products.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, err
	}

	return doc.Stock, nil
}
