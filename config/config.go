package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tijender7/yoga-backend/internal/models"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
	Port        string `env:"PORT" envDefault:"8080"`
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"https://api.yogforever.com"`
	JWTSecret   string `env:"JWT_SECRET"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Razorpay RazorpayConfig `envPrefix:"RAZORPAY_"`
	Webhook  WebhookConfig  `envPrefix:"WEBHOOK_"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
}

type RazorpayConfig struct {
	KeyID         string `env:"KEY_ID"`
	KeySecret     string `env:"KEY_SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type WebhookConfig struct {
	// Async switches the endpoint from process-then-ack to enqueue-then-ack.
	Async        bool          `env:"ASYNC" envDefault:"false"`
	QueueSize    int           `env:"QUEUE_SIZE" envDefault:"64"`
	Workers      int           `env:"WORKERS" envDefault:"2"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" || cfg.Razorpay.WebhookSecret == "" {
		return nil, fmt.Errorf("razorpay credentials (RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET and RAZORPAY_WEBHOOK_SECRET) must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

// CallbackURL is the webhook address advertised to Razorpay at link-creation
// time.
func (c *Config) CallbackURL() string {
	return c.APIBaseURL + "/razorpay-webhook"
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Webhook bursts arrive concurrently; keep the pool sized for them.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.WebhookEvent{},
		&models.Subscription{},
		&models.PaymentFailure{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
