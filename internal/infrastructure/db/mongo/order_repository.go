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

var orderSortable = map[string]string{
	"createdAt":             "createdAt",
	"updatedAt":             "updatedAt",
	"status":                "status",
	"totalPrice":            "totalPrice",
	"totalPromotionalPrice": "totalPromotionalPrice",
	"_id":                   "_id",
}

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collOrders)}
}

type orderItemDoc struct {
	ProductID        primitive.ObjectID   `bson:"productId"`
	Name             string               `bson:"name"`
	Image            string               `bson:"image,omitempty"`
	Price            primitive.Decimal128 `bson:"price"`
	PromotionalPrice primitive.Decimal128 `bson:"promotionalPrice"`
	Count            int                  `bson:"count"`
}

type orderDoc struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty"`
	UserID                primitive.ObjectID   `bson:"userId"`
	CartID                primitive.ObjectID   `bson:"cartId"`
	Status                string               `bson:"status"`
	Items                 []orderItemDoc       `bson:"items"`
	TotalPrice            primitive.Decimal128 `bson:"totalPrice"`
	TotalPromotionalPrice primitive.Decimal128 `bson:"totalPromotionalPrice"`
	Firstname             string               `bson:"firstname"`
	Lastname              string               `bson:"lastname"`
	Phone                 string               `bson:"phone"`
	Address               string               `bson:"address"`
	CreatedAt             time.Time            `bson:"createdAt"`
	UpdatedAt             time.Time            `bson:"updatedAt"`
}

func newOrderDoc(o *domain.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemDoc{
			ProductID:        optionalID(it.ProductID),
			Name:             it.Name,
			Image:            it.Image,
			Price:            toDecimal128(it.Price),
			PromotionalPrice: toDecimal128(it.PromotionalPrice),
			Count:            it.Count,
		}
	}
	return orderDoc{
		ID:                    primitive.NewObjectID(),
		UserID:                optionalID(o.UserID),
		CartID:                optionalID(o.CartID),
		Status:                string(o.Status),
		Items:                 items,
		TotalPrice:            toDecimal128(o.TotalPrice),
		TotalPromotionalPrice: toDecimal128(o.TotalPromotionalPrice),
		Firstname:             o.Firstname,
		Lastname:              o.Lastname,
		Phone:                 o.Phone,
		Address:               o.Address,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

func (d orderDoc) toDomain() *domain.Order {
	items := make([]domain.OrderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = domain.OrderItem{
			ProductID:        it.ProductID.Hex(),
			Name:             it.Name,
			Image:            it.Image,
			Price:            fromDecimal128(it.Price),
			PromotionalPrice: fromDecimal128(it.PromotionalPrice),
			Count:            it.Count,
		}
	}
	return &domain.Order{
		ID:                    d.ID.Hex(),
		UserID:                d.UserID.Hex(),
		CartID:                hexOrEmpty(d.CartID),
		Status:                domain.OrderStatus(d.Status),
		Items:                 items,
		TotalPrice:            fromDecimal128(d.TotalPrice),
		TotalPromotionalPrice: fromDecimal128(d.TotalPromotionalPrice),
		Firstname:             d.Firstname,
		Lastname:              d.Lastname,
		Phone:                 d.Phone,
		Address:               d.Address,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	doc := newOrderDoc(o)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		uid, err := objectID(userID, domain.ErrOrderNotFound)
		if err != nil {
			return nil, err
		}
		filter["userId"] = uid
	}

	var doc orderDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Order, int64, error) {
	filter := r.filter(q.UserID, q.Status)
	if q.Search != "" {
		rx := searchRegex(q.Search)
		or := bson.A{
			bson.M{"firstname": rx},
			bson.M{"lastname": rx},
			bson.M{"phone": rx},
			bson.M{"address": rx},
		}
		if oid, err := primitive.ObjectIDFromHex(q.Search); err == nil {
			or = append(or, bson.M{"_id": oid})
		}
		filter["$or"] = or
	}

	docs, total, err := findPage[orderDoc](ctx, r.coll, filter, findOptions(q.Filter, orderSortable, "createdAt"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Order, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

// UpdateStatus only matches while the stored status is still from, so two
// concurrent transitions of the same order cannot both succeed.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	var doc orderDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrInvalidTransition
}

func (r *OrderRepository) Count(ctx context.Context, userID, status string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, r.filter(userID, status))
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) filter(userID, status string) bson.M {
	filter := bson.M{}
	if userID != "" {
		filter["userId"] = optionalID(userID)
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}
