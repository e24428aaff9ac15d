package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  serviceName: storefront
  log:
    level: debug
http:
  port: 8080
  timeouts:
    readTimeout: 5s
secretKey:
  access: access-secret
  refresh: ""
pricing:
  taxRate: "0.06"
catalog:
  defaultPageSize: 20
`

func writeConfigDir(t *testing.T, dotenv string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testYAML), 0o600))
	if dotenv != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, defaultEnvFile), []byte(dotenv), 0o600))
	}

	return dir
}

func TestLoadWithEnv_YAMLAndEnvOverrides(t *testing.T) {
	t.Chdir(writeConfigDir(t, ""))
	t.Setenv("PRICING_TAXRATE", "0.08")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.Env.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	assert.Equal(t, "0.08", cfg.Pricing.TaxRate)
	assert.Equal(t, 20, cfg.Catalog.DefaultPageSize)
}

func TestLoadWithEnv_DotEnvFile(t *testing.T) {
	t.Chdir(writeConfigDir(t, "SECRETKEY_REFRESH=from-dotenv\n"))
	t.Cleanup(func() { _ = os.Unsetenv("SECRETKEY_REFRESH") })

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "access-secret", cfg.SecretKey.Access)
	assert.Equal(t, "from-dotenv", cfg.SecretKey.Refresh)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "0.06", cfg.Pricing.TaxRate)
	assert.Equal(t, "100", cfg.Pricing.FreeShippingThreshold)
	assert.Equal(t, "9.99", cfg.Pricing.FlatShipping)
	assert.Equal(t, 12, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, 100, cfg.Catalog.MaxPageSize)
	assert.Equal(t, "storefront_session", cfg.Session.Name)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		Pricing: &PricingConfig{TaxRate: "0.21", CurrencySymbol: "€"},
		Catalog: &CatalogConfig{DefaultPageSize: 24},
	}

	applyDefaults(cfg)

	assert.Equal(t, "0.21", cfg.Pricing.TaxRate)
	assert.Equal(t, "€", cfg.Pricing.CurrencySymbol)
	assert.Equal(t, 24, cfg.Catalog.DefaultPageSize)
}
