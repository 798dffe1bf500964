package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/model"
)

// Listas mínimas para cuando la API de referencia no responde.
var (
	FallbackDepartments = []model.Department{
		{Name: "Bogotá D.C.", Cities: []string{"Bogotá"}},
		{Name: "Antioquia", Cities: []string{"Medellín", "Envigado", "Itagüí", "Bello"}},
		{Name: "Valle del Cauca", Cities: []string{"Cali", "Palmira", "Buenaventura"}},
		{Name: "Cundinamarca", Cities: []string{"Soacha", "Chía", "Zipaquirá"}},
		{Name: "Atlántico", Cities: []string{"Barranquilla", "Soledad"}},
		{Name: "Santander", Cities: []string{"Bucaramanga", "Floridablanca"}},
	}
	FallbackCallingCodes = []model.CallingCode{
		{Code: "+57", Country: "Colombia"},
	}
)

// Servicio que consulta la API externa de datos de referencia (departamentos, indicativos).
type ReferenceService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewReferenceService(baseURL string, log *zap.Logger) *ReferenceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReferenceService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Departments nunca devuelve una lista vacía.
func (r *ReferenceService) Departments(ctx context.Context) []model.Department {
	var out []model.Department
	if err := r.get(ctx, "/departments", &out); err != nil || len(out) == 0 {
		r.warn(ctx, "departments", err)
		return append([]model.Department(nil), FallbackDepartments...)
	}
	return out
}

// CallingCodes nunca devuelve una lista vacía.
func (r *ReferenceService) CallingCodes(ctx context.Context) []model.CallingCode {
	var out []model.CallingCode
	if err := r.get(ctx, "/calling-codes", &out); err != nil || len(out) == 0 {
		r.warn(ctx, "calling-codes", err)
		return append([]model.CallingCode(nil), FallbackCallingCodes...)
	}
	return out
}

func (r *ReferenceService) warn(ctx context.Context, resource string, err error) {
	fields := []zap.Field{zap.String("resource", resource)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Or(ctx, r.logger).Warn("referencia: usando lista de respaldo", fields...)
}

func (r *ReferenceService) get(ctx context.Context, path string, dst any) error {
	if r.baseURL == "" {
		return errors.New("reference api url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("reference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reference api %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
