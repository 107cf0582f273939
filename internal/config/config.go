package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Scrape   ScrapeConfig   `envPrefix:"SCRAPE_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8092"`
	CORSPattern     string        `env:"CORS_PATTERN" envDefault:".*"`
	StatsdAddr      string        `env:"STATSD_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"15s"`
	Pprof           bool          `env:"PPROF" envDefault:"false"`
}

type DatabaseConfig struct {
	Hosts    []string `env:"HOSTS" envSeparator:"," envDefault:"localhost:27017"`
	URI      string   `env:"URI"`
	Direct   bool     `env:"DIRECT" envDefault:"false"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Database string   `env:"DATABASE" envDefault:"clearfashion"`
	AppName  string   `env:"APP_NAME" envDefault:"clear-fashion"`
}

type KafkaConfig struct {
	Enabled    bool     `env:"ENABLED" envDefault:"false"`
	Brokers    []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic      string   `env:"TOPIC" envDefault:"clearfashion.product.scraped"`
	GroupID    string   `env:"GROUP_ID" envDefault:"clearfashion-ingest"`
	MaxWorkers int      `env:"MAX_WORKERS" envDefault:"4"`
}

type ScrapeConfig struct {
	// cron spec, empty disables scheduled scraping inside `serve`
	Schedule    string        `env:"SCHEDULE"`
	OutputDir   string        `env:"OUTPUT_DIR"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"2m"`
	Concurrency int           `env:"CONCURRENCY" envDefault:"3"`
	RatePerSec  float64       `env:"RATE_PER_SEC" envDefault:"2"`
	UserAgent   string        `env:"USER_AGENT" envDefault:"clear-fashion-bot/1.0"`
	// brand=link pairs, DefaultShops when empty
	Shops []string `env:"SHOPS" envSeparator:","`
}

// ShopConfig describes one partner e-shop to scrape.
type ShopConfig struct {
	Brand string
	Link  string
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Format     string `env:"FORMAT" envDefault:"json"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"14"`
}

// DefaultShops are the partner boutiques scraped by default.
var DefaultShops = []ShopConfig{
	{Brand: "dedicated", Link: "https://www.dedicatedbrand.com/en/loadfilter"},
	{Brand: "montlimart", Link: "https://www.montlimart.com/toute-la-collection.html"},
	{Brand: "adresseparis", Link: "https://adresse.paris/630-toute-la-collection?id_category=630&n=123"},
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Scrape.ShopConfigs(); err != nil {
		return nil, err
	}
	if cfg.Scrape.Concurrency < 1 {
		cfg.Scrape.Concurrency = 1
	}
	if cfg.Kafka.MaxWorkers < 1 {
		cfg.Kafka.MaxWorkers = 1
	}
	return cfg, nil
}

// ShopConfigs parses the configured shops.
func (c ScrapeConfig) ShopConfigs() ([]ShopConfig, error) {
	if len(c.Shops) == 0 {
		return DefaultShops, nil
	}
	shops := make([]ShopConfig, 0, len(c.Shops))
	for _, raw := range c.Shops {
		brand, link, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok || brand == "" || link == "" {
			return nil, fmt.Errorf("invalid shop %q, expected brand=link", raw)
		}
		shops = append(shops, ShopConfig{Brand: brand, Link: link})
	}
	return shops, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
