package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

var categorySortable = map[string]string{
	"name":      "name",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"_id":       "_id",
}

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(collCategories)}
}

type categoryDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	CategoryID primitive.ObjectID `bson:"categoryId,omitempty"`
	Image      string             `bson:"image,omitempty"`
	IsDeleted  bool               `bson:"isDeleted"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d categoryDoc) toDomain() *domain.Category {
	return &domain.Category{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		CategoryID: hexOrEmpty(d.CategoryID),
		Image:      d.Image,
		IsDeleted:  d.IsDeleted,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	doc := categoryDoc{
		ID:         primitive.NewObjectID(),
		Name:       c.Name,
		CategoryID: optionalID(c.CategoryID),
		Image:      c.Image,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Category, error) {
	oid, err := objectID(id, domain.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if !includeDeleted {
		filter["isDeleted"] = false
	}

	var doc categoryDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	oid, err := objectID(c.ID, domain.ErrCategoryNotFound)
	if err != nil {
		return err
	}
	set := bson.M{"name": c.Name, "image": c.Image, "updatedAt": c.UpdatedAt}
	update := bson.M{"$set": set}
	if c.CategoryID == "" {
		update["$unset"] = bson.M{"categoryId": ""}
	} else {
		set["categoryId"] = optionalID(c.CategoryID)
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	return setDeleted(ctx, r.coll, id, deleted, domain.ErrCategoryNotFound)
}

func (r *CategoryRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Category, int64, error) {
	filter := bson.M{}
	if !q.IncludeHidden {
		filter["isDeleted"] = false
	}
	if q.Search != "" {
		filter["name"] = searchRegex(q.Search)
	}
	if q.CategoryID != "" {
		filter["categoryId"] = optionalID(q.CategoryID)
	}

	docs, total, err := findPage[categoryDoc](ctx, r.coll, filter, findOptions(q.Filter, categorySortable, "_id"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Category, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

// ---------------------------------------------------------------------------
// Producers
// ---------------------------------------------------------------------------

type ProducerRepository struct {
	coll *mongo.Collection
}

func NewProducerRepository(db *mongo.Database) *ProducerRepository {
	return &ProducerRepository{coll: db.Collection(collProducers)}
}

type producerDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d producerDoc) toDomain() *domain.Producer {
	return &domain.Producer{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *ProducerRepository) Create(ctx context.Context, p *domain.Producer) (*domain.Producer, error) {
	doc := producerDoc{ID: primitive.NewObjectID(), Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert producer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProducerRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.Producer, error) {
	oid, err := objectID(id, domain.ErrProducerNotFound)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if !includeDeleted {
		filter["isDeleted"] = false
	}

	var doc producerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProducerNotFound
		}
		return nil, fmt.Errorf("find producer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProducerRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	return setDeleted(ctx, r.coll, id, deleted, domain.ErrProducerNotFound)
}

func (r *ProducerRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Producer, int64, error) {
	filter := bson.M{}
	if !q.IncludeHidden {
		filter["isDeleted"] = false
	}
	if q.Search != "" {
		filter["name"] = searchRegex(q.Search)
	}

	docs, total, err := findPage[producerDoc](ctx, r.coll, filter, findOptions(q.Filter, categorySortable, "_id"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Producer, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

func setDeleted(ctx context.Context, coll *mongo.Collection, id string, deleted bool, notFound error) error {
	oid, err := objectID(id, notFound)
	if err != nil {
		return err
	}
	res, err := coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"isDeleted": deleted,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set %s deleted: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
