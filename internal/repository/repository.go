package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-checkout/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("documento no encontrado")

// Mongo implementation
type MongoOrderRepository struct {
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders:   db.Collection("orders"),
		products: db.Collection("products"),
	}
}

// CreateOrder reemplaza con upsert por _id: reintentar la misma orden no la duplica.
func (m *MongoOrderRepository) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"_id": o.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.orders.ReplaceOne(ctx, filter, o, opts); err != nil {
		return model.Order{}, fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return o, nil
}

// DecrementStock descuenta la cantidad de cada línea en products.stock.
// No valida stock negativo: la reserva real ocurre en el inventario.
func (m *MongoOrderRepository) DecrementStock(ctx context.Context, lines []model.OrderLineSnapshot) error {
	writes := make([]mongo.WriteModel, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": l.ProductID}).
			SetUpdate(bson.M{
				"$inc": bson.M{"stock": -l.Quantity},
				"$set": bson.M{"updated_at": time.Now().UTC()},
			}))
	}
	if len(writes) == 0 {
		return nil
	}

	res, err := m.products.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount < int64(len(writes)) {
		return fmt.Errorf("decrement stock: %d de %d productos: %w", len(writes)-int(res.MatchedCount), len(writes), ErrNotFound)
	}
	return nil
}
