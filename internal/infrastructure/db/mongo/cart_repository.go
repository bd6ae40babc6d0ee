package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

var cartSortable = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"_id":       "_id",
}

// CartRepository stores carts and their lines in two collections.
type CartRepository struct {
	carts *mongo.Collection
	items *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{carts: db.Collection(collCarts), items: db.Collection(collCartItems)}
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d cartDoc) toDomain() *domain.Cart {
	return &domain.Cart{ID: d.ID.Hex(), UserID: d.UserID.Hex(), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type cartItemDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CartID    primitive.ObjectID `bson:"cartId"`
	ProductID primitive.ObjectID `bson:"productId"`
	Count     int                `bson:"count"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d cartItemDoc) toDomain() *domain.CartItem {
	return &domain.CartItem{
		ID:        d.ID.Hex(),
		CartID:    d.CartID.Hex(),
		ProductID: d.ProductID.Hex(),
		Count:     d.Count,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create opens a cart for userID. A concurrent create for the same user
// returns the cart that won.
func (r *CartRepository) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	uid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := cartDoc{ID: primitive.NewObjectID(), UserID: uid, CreatedAt: now, UpdatedAt: now}
	if _, err := r.carts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindOpenByUser(ctx, userID)
		}
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) FindOpenByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	uid, err := objectID(userID, domain.ErrCartNotFound)
	if err != nil {
		return nil, err
	}
	return r.findCart(ctx, bson.M{"userId": uid})
}

func (r *CartRepository) FindByID(ctx context.Context, id, userID string) (*domain.Cart, error) {
	oid, err := objectID(id, domain.ErrCartNotFound)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID, domain.ErrCartNotFound)
	if err != nil {
		return nil, err
	}
	return r.findCart(ctx, bson.M{"_id": oid, "userId": uid})
}

func (r *CartRepository) findCart(ctx context.Context, filter bson.M) (*domain.Cart, error) {
	var doc cartDoc
	if err := r.carts.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Cart, int64, error) {
	filter := bson.M{}
	if q.UserID != "" {
		filter["userId"] = optionalID(q.UserID)
	}
	docs, total, err := findPage[cartDoc](ctx, r.carts, filter, findOptions(q.Filter, cartSortable, "_id"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Cart, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrCartNotFound)
	if err != nil {
		return err
	}
	if _, err := r.carts.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// AddItem upserts the (cart, product) line and adds count to it.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID string, count int) (*domain.CartItem, error) {
	cid, err := objectID(cartID, domain.ErrCartNotFound)
	if err != nil {
		return nil, err
	}
	pid, err := objectID(productID, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	var doc cartItemDoc
	err = r.items.FindOneAndUpdate(ctx,
		bson.M{"cartId": cid, "productId": pid},
		bson.M{
			"$inc":         bson.M{"count": count},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) FindItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	oid, err := objectID(itemID, domain.ErrCartItemNotFound)
	if err != nil {
		return nil, err
	}
	var doc cartItemDoc
	if err := r.items.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) UpdateItemCount(ctx context.Context, itemID string, count int) (*domain.CartItem, error) {
	oid, err := objectID(itemID, domain.ErrCartItemNotFound)
	if err != nil {
		return nil, err
	}
	var doc cartItemDoc
	err = r.items.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"count": count, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID string) error {
	oid, err := objectID(itemID, domain.ErrCartItemNotFound)
	if err != nil {
		return err
	}
	res, err := r.items.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	cid, err := objectID(cartID, domain.ErrCartNotFound)
	if err != nil {
		return nil, err
	}
	cur, err := r.items.Find(ctx, bson.M{"cartId": cid}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cart items: %w", err)
	}
	var docs []cartItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	out := make([]domain.CartItem, len(docs))
	for i, d := range docs {
		out[i] = *d.toDomain()
	}
	return out, nil
}

func (r *CartRepository) DeleteItems(ctx context.Context, cartID string) error {
	cid, err := objectID(cartID, domain.ErrCartNotFound)
	if err != nil {
		return err
	}
	if _, err := r.items.DeleteMany(ctx, bson.M{"cartId": cid}); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}
