package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/sqlerr"
)

// ProductCollection is the MongoDB collection holding products.
const ProductCollection = "product"

type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
}

func toDocument(p *model.Product) (productDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDocument{}, fmt.Errorf("encode price %s: %w", p.Price, err)
	}
	doc := productDocument{
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return productDocument{}, productNotFound(p.ID, mongo.ErrNoDocuments)
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d productDocument) toModel() (model.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return model.Product{}, fmt.Errorf("decode price of product %s: %w", d.ID.Hex(), err)
	}
	return model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
	}, nil
}

func productNotFound(id string, cause error) error {
	return fmt.Errorf("%sproducts: product %q: %w: %w", sqlerr.TablePrefix, id, ErrNotFound, cause)
}

// ProductRepo implements ProductRepository on MongoDB.
type ProductRepo struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository over db's product collection.
func NewProductRepository(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection(ProductCollection)}
}

// Save inserts p and sets p.ID to the generated ObjectID hex.
func (r *ProductRepo) Save(ctx context.Context, p *model.Product) error {
	doc, err := toDocument(p)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%sproducts: %w", sqlerr.TablePrefix, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID = doc.ID.Hex()
	return nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, productNotFound(id, mongo.ErrNoDocuments)
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productNotFound(id, err)
		}
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}

	p, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns every product in insertion order.
func (r *ProductRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Update replaces the stored document of p.ID.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		return productNotFound(p.ID, mongo.ErrNoDocuments)
	}
	doc, err := toDocument(p)
	if err != nil {
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace product %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return productNotFound(p.ID, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return productNotFound(id, mongo.ErrNoDocuments)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return productNotFound(id, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
