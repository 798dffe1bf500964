// config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"storefront-checkout/internal/eligibility"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://host.docker.internal:27017"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"storefront"`
	RabbitURL   string `envconfig:"RABBIT_URL" default:"amqp://host.docker.internal"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	NotifyExchange string `envconfig:"NOTIFY_EXCHANGE" default:"order_confirmed"`
	FallbackFile   string `envconfig:"FALLBACK_FILE" default:"data/pending_orders.json"`

	StoreTimeout      time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	BackgroundTimeout time.Duration `envconfig:"BACKGROUND_TIMEOUT" default:"10s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	BreakerFailures   uint32        `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerOpen       time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	ExpressFee int64 `envconfig:"EXPRESS_FEE" default:"15000"`

	CODEnabled     bool          `envconfig:"COD_ENABLED" default:"true"`
	CODDepartments SemicolonList `envconfig:"COD_DEPARTMENTS"`
	CODCity        string        `envconfig:"COD_CITY" default:"Bogotá"`
	CODLabel       string        `envconfig:"COD_LABEL"`

	WompiCheckoutURL     string `envconfig:"WOMPI_CHECKOUT_URL" default:"https://checkout.wompi.co/p/"`
	WompiPublicKey       string `envconfig:"WOMPI_PUBLIC_KEY" required:"true"`
	WompiRedirectURL     string `envconfig:"WOMPI_REDIRECT_URL"`
	WompiIntegritySecret string `envconfig:"WOMPI_INTEGRITY_SECRET"`

	ReferenceAPIURL string `envconfig:"REFERENCE_API_URL"`
}

// Load lee .env si existe y luego el entorno. Las variables ya definidas no se pisan.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.WompiPublicKey == "" {
		return nil, errors.New("config: WOMPI_PUBLIC_KEY is required")
	}
	if cfg.StoreTimeout <= 0 {
		return nil, errors.New("config: STORE_TIMEOUT must be positive")
	}
	return &cfg, nil
}

// CODPolicy arma la política de contra entrega. Sin COD_DEPARTMENTS se usan las
// variantes conocidas de Bogotá. El nombre visible es COD_LABEL o, si falta, COD_CITY.
func (c *Config) CODPolicy() eligibility.Policy {
	p := eligibility.DefaultPolicy()
	p.Enabled = c.CODEnabled
	if len(c.CODDepartments) > 0 {
		p.Departments = []string(c.CODDepartments)
	}
	if c.CODCity != "" {
		p.City = c.CODCity
		p.Label = c.CODCity
	}
	if c.CODLabel != "" {
		p.Label = c.CODLabel
	}
	return p
}

// SemicolonList es una lista separada por ";". Las grafías de departamentos
// llevan comas ("Bogotá, Distrito Capital"), así que no sirve el separador de envconfig.
type SemicolonList []string

// Decode implementa envconfig.Decoder. Se descartan entradas vacías.
func (l *SemicolonList) Decode(value string) error {
	var out SemicolonList
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}
