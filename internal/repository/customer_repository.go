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

type MongoCustomerRepository struct {
	col *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{col: db.Collection("customers")}
}

// UpsertByPhone crea o actualiza el perfil; el teléfono es la clave.
func (m *MongoCustomerRepository) UpsertByPhone(ctx context.Context, p model.CustomerProfile) error {
	if p.Phone == "" {
		return errors.New("customer: phone is required")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	filter := bson.M{"phone": p.Phone}
	update := bson.M{
		"$set":         p,
		"$setOnInsert": bson.M{"created_at": p.UpdatedAt},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}
