package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

var productSortable = map[string]string{
	"name":             "name",
	"price":            "price",
	"promotionalPrice": "promotionalPrice",
	"quantity":         "quantity",
	"sold":             "sold",
	"rating":           "rating",
	"createdAt":        "createdAt",
	"_id":              "_id",
}

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(collProducts)}
}

type productDoc struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Name             string               `bson:"name"`
	Description      string               `bson:"description"`
	Price            primitive.Decimal128 `bson:"price"`
	PromotionalPrice primitive.Decimal128 `bson:"promotionalPrice"`
	Quantity         int                  `bson:"quantity"`
	Sold             int                  `bson:"sold"`
	ListImages       []string             `bson:"listImages"`
	CategoryID       primitive.ObjectID   `bson:"categoryId"`
	ProducerID       primitive.ObjectID   `bson:"producerId"`
	IsActive         bool                 `bson:"isActive"`
	Rating           float64              `bson:"rating"`
	NumberOfReviews  int                  `bson:"numberOfReviews"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Description:      d.Description,
		Price:            fromDecimal128(d.Price),
		PromotionalPrice: fromDecimal128(d.PromotionalPrice),
		Quantity:         d.Quantity,
		Sold:             d.Sold,
		ListImages:       d.ListImages,
		CategoryID:       hexOrEmpty(d.CategoryID),
		ProducerID:       hexOrEmpty(d.ProducerID),
		IsActive:         d.IsActive,
		Rating:           d.Rating,
		NumberOfReviews:  d.NumberOfReviews,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	doc := productDoc{
		ID:               primitive.NewObjectID(),
		Name:             p.Name,
		Description:      p.Description,
		Price:            toDecimal128(p.Price),
		PromotionalPrice: toDecimal128(p.PromotionalPrice),
		Quantity:         p.Quantity,
		Sold:             p.Sold,
		ListImages:       p.ListImages,
		CategoryID:       optionalID(p.CategoryID),
		ProducerID:       optionalID(p.ProducerID),
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for _, d := range docs {
		out[d.ID.Hex()] = d.toDomain()
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Product, int64, error) {
	filter := bson.M{}
	if !q.IncludeHidden {
		filter["isActive"] = true
	}
	if q.Search != "" {
		filter["name"] = searchRegex(q.Search)
	}
	if q.CategoryID != "" {
		filter["categoryId"] = optionalID(q.CategoryID)
	}
	if rating, err := strconv.ParseFloat(q.Rating, 64); err == nil && rating > 0 {
		filter["rating"] = bson.M{"$gte": rating}
	}
	price := bson.M{}
	if d, err := decimal.NewFromString(q.MinPrice); err == nil {
		price["$gte"] = toDecimal128(d)
	}
	if d, err := decimal.NewFromString(q.MaxPrice); err == nil {
		price["$lte"] = toDecimal128(d)
	}
	if len(price) > 0 {
		filter["promotionalPrice"] = price
	}

	docs, total, err := findPage[productDoc](ctx, r.coll, filter, findOptions(q.Filter, productSortable, "_id"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Product, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

func (r *ProductRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Product, error) {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	var doc productDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("set product active: %w", err)
	}
	return doc.toDomain(), nil
}

// AdjustStock applies the change in a single conditional update so two
// concurrent checkouts cannot both take the last units.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"quantity": delta, "sold": -delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return domain.ErrOutOfStock
}

func (r *ProductRepository) SetRating(ctx context.Context, id string, rating float64, reviews int) error {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"rating": rating, "numberOfReviews": reviews}})
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}
