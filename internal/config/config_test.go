package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/eligibility"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "pub_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 10*time.Second, cfg.BackgroundTimeout)
	assert.Equal(t, int64(15000), cfg.ExpressFee)
	assert.True(t, cfg.CODEnabled)
	assert.Equal(t, "order_confirmed", cfg.NotifyExchange)

	rule := eligibility.NewRule(cfg.CODPolicy())
	assert.True(t, rule.IsAllowed("Bogotá D.C.", ""))
	assert.Equal(t, "Bogotá", rule.Label())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "pub_test")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("COD_ENABLED", "true")
	t.Setenv("COD_DEPARTMENTS", "Antioquia")
	t.Setenv("COD_CITY", "Medellín")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)

	rule := eligibility.NewRule(cfg.CODPolicy())
	assert.True(t, rule.IsAllowed("antioquia", ""))
	assert.True(t, rule.IsAllowed("", "MEDELLIN"))
	assert.False(t, rule.IsAllowed("Bogotá", "Bogotá"))
	assert.Equal(t, "Medellín", rule.Label())
}

func TestLoad_CODDepartmentsWithCommas(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "pub_test")
	t.Setenv("COD_DEPARTMENTS", "Bogotá, Distrito Capital; Distrito Capital ;")
	t.Setenv("COD_LABEL", "Bogotá D.C.")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SemicolonList{"Bogotá, Distrito Capital", "Distrito Capital"}, cfg.CODDepartments)

	rule := eligibility.NewRule(cfg.CODPolicy())
	assert.True(t, rule.IsAllowed("Bogotá, Distrito Capital", ""))
	assert.True(t, rule.IsAllowed("distrito capital", ""))
	assert.False(t, rule.IsAllowed("Cundinamarca", "Soacha"))
	assert.Equal(t, "Bogotá D.C.", rule.Label())
}

func TestLoad_CODDisabled(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "pub_test")
	t.Setenv("COD_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, eligibility.NewRule(cfg.CODPolicy()).Enabled())
}

func TestLoad_RequiresWompiKey(t *testing.T) {
	t.Setenv("WOMPI_PUBLIC_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
