package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8092", cfg.Server.Addr)
	assert.Equal(t, []string{"localhost:27017"}, cfg.Database.Hosts)
	assert.Equal(t, "clearfashion", cfg.Database.Database)
	assert.Equal(t, "clear-fashion", cfg.Database.AppName)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Scrape.Timeout)
	shops, err := cfg.Scrape.ShopConfigs()
	require.NoError(t, err)
	assert.Equal(t, DefaultShops, shops)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("DATABASE_HOSTS", "mongo-1:27017,mongo-2:27017")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_MAX_WORKERS", "0")
	t.Setenv("SCRAPE_SCHEDULE", "@every 6h")
	t.Setenv("SCRAPE_CONCURRENCY", "-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"mongo-1:27017", "mongo-2:27017"}, cfg.Database.Hosts)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 1, cfg.Kafka.MaxWorkers)
	assert.Equal(t, "@every 6h", cfg.Scrape.Schedule)
	assert.Equal(t, 1, cfg.Scrape.Concurrency)
}

func TestShopConfigs(t *testing.T) {
	t.Setenv("SCRAPE_SHOPS", "montlimart=https://www.montlimart.com/toute-la-collection.html,adresseparis=https://adresse.paris/630?id_category=630&n=123")

	cfg, err := Load()
	require.NoError(t, err)

	shops, err := cfg.Scrape.ShopConfigs()
	require.NoError(t, err)
	assert.Equal(t, []ShopConfig{
		{Brand: "montlimart", Link: "https://www.montlimart.com/toute-la-collection.html"},
		{Brand: "adresseparis", Link: "https://adresse.paris/630?id_category=630&n=123"},
	}, shops)

	t.Setenv("SCRAPE_SHOPS", "montlimart")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("SCRAPE_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad() })
}
