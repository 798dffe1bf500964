package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-checkout/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type cartDocument struct {
	ID        string           `bson:"_id"`
	Items     []model.CartItem `bson:"items"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// MongoCartRepository lee los carritos de sesión que mantiene el frontend.
type MongoCartRepository struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{col: db.Collection("carts")}
}

func (m *MongoCartRepository) Find(ctx context.Context, cartID string) (*SessionCart, error) {
	var doc cartDocument
	err := m.col.FindOne(ctx, bson.M{"_id": cartID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart %s: %w", cartID, err)
	}
	return &SessionCart{id: doc.ID, items: doc.Items, repo: m}, nil
}

func (m *MongoCartRepository) clear(ctx context.Context, cartID string) error {
	update := bson.M{"$set": bson.M{
		"items":      bson.A{},
		"updated_at": time.Now().UTC(),
	}}
	if _, err := m.col.UpdateOne(ctx, bson.M{"_id": cartID}, update); err != nil {
		return fmt.Errorf("clear cart %s: %w", cartID, err)
	}
	return nil
}

// SessionCart es una vista en memoria del carrito cargado.
type SessionCart struct {
	mu    sync.Mutex
	id    string
	items []model.CartItem
	repo  *MongoCartRepository
}

func (c *SessionCart) ID() string { return c.id }

// Items devuelve una copia; quien la recibe puede modificarla.
func (c *SessionCart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *SessionCart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CartTotal(c.items)
}

func (c *SessionCart) Clear(ctx context.Context) error {
	if err := c.repo.clear(ctx, c.id); err != nil {
		return err
	}
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	return nil
}
