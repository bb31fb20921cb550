package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type MailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	Sender   string
}

func LoadMailConfig() (*MailConfig, error) {
	port := 587
	if raw := os.Getenv("MAIL_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MAIL_PORT: %v", err)
		}
		port = parsed
	}

	sender := os.Getenv("MAIL_DEFAULT_SENDER")
	if sender == "" {
		sender = "noreply@eventmaster.com"
	}

	return &MailConfig{
		Server:   os.Getenv("MAIL_SERVER"),
		Port:     port,
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		Sender:   sender,
	}, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Event{}, &models.Registration{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
