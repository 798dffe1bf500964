package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"storefront-checkout/internal/model"
)

// FileFallbackStore guarda en un archivo JSON las órdenes que no se pudieron
// escribir en Mongo, para conciliarlas después.
type FileFallbackStore struct {
	path string
}

func NewFileFallbackStore(path string) *FileFallbackStore {
	return &FileFallbackStore{path: path}
}

// Load devuelve una lista vacía si el archivo todavía no existe.
func (f *FileFallbackStore) Load(ctx context.Context) ([]model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fallback %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Order{}, nil
	}

	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode fallback %s: %w", f.path, err)
	}
	return orders, nil
}

// Save reescribe la lista completa de forma atómica.
func (f *FileFallbackStore) Save(ctx context.Context, orders []model.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	raw, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fallback: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fallback dir: %w", err)
		}
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write fallback %s: %w", f.path, err)
	}
	return nil
}
