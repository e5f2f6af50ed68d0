package config

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopfront-demo/shopfront/internal/models"
)

type Config struct {
	PORT          string
	DB_DSN        string
	JWT_SECRET    string
	TOKEN_TTL     string
	KAFKA_ADDRESS string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	LOG_LEVEL     string
	RATE_LIMIT    string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:          os.Getenv("PORT"),
		DB_DSN:        os.Getenv("DB_DSN"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		TOKEN_TTL:     os.Getenv("TOKEN_TTL"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
		RATE_LIMIT:    os.Getenv("RATE_LIMIT"),
	}

	if config.PORT == "" {
		config.PORT = "8080"
	}
	if config.JWT_SECRET == "" {
		config.JWT_SECRET = "dev-secret-change-me"
	}

	return config, nil
}

// InitDB opens the storefront database. Without DB_DSN the whole catalog
// lives in an in-memory SQLite database and is gone on restart, which is
// the lifetime this demo promises. A Postgres DSN switches the same
// schema onto a real server.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.DB_DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DB_DSN), gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(":memory:"), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return db, nil
}
