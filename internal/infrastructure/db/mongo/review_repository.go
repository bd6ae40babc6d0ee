package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

var reviewSortable = map[string]string{
	"rating":    "rating",
	"createdAt": "createdAt",
	"_id":       "_id",
}

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(collReviews)}
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	ProductID primitive.ObjectID `bson:"productId"`
	OrderID   primitive.ObjectID `bson:"orderId"`
	Rating    int                `bson:"rating"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		ProductID: d.ProductID.Hex(),
		OrderID:   d.OrderID.Hex(),
		Rating:    d.Rating,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	doc := reviewDoc{
		ID:        primitive.NewObjectID(),
		UserID:    optionalID(rv.UserID),
		ProductID: optionalID(rv.ProductID),
		OrderID:   optionalID(rv.OrderID),
		Rating:    rv.Rating,
		Content:   rv.Content,
		CreatedAt: rv.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Review, int64, error) {
	filter := bson.M{}
	if q.ProductID != "" {
		filter["productId"] = optionalID(q.ProductID)
	}
	docs, total, err := findPage[reviewDoc](ctx, r.coll, filter, findOptions(q.Filter, reviewSortable, "createdAt"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

// Stats aggregates the average rating and count of a product's reviews.
func (r *ReviewRepository) Stats(ctx context.Context, productID string) (float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": optionalID(productID)}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("review stats: %w", err)
	}
	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("review stats: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Avg, rows[0].Count, nil
}
