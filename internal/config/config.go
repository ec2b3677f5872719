package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string `mapstructure:"PORT"`
	DatabasePath          string `mapstructure:"DATABASE_PATH"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	UploadDir             string `mapstructure:"UPLOAD_DIR"`
	FrontendURL           string `mapstructure:"FRONTEND_URL"`
	EnableCORS            bool   `mapstructure:"ENABLE_CORS"`
	SMTPHost              string `mapstructure:"SMTP_HOST"`
	SMTPPort              string `mapstructure:"SMTP_PORT"`
	SMTPUsername          string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword          string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom              string `mapstructure:"SMTP_FROM"`
	DefaultImportPassword string `mapstructure:"DEFAULT_IMPORT_PASSWORD"`
	DefaultDepartment     string `mapstructure:"DEFAULT_DEPARTMENT"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "achievements.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:3000")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("DEFAULT_IMPORT_PASSWORD", "password123")
	viper.SetDefault("DEFAULT_DEPARTMENT", "CSE")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("UPLOAD_DIR")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("ENABLE_CORS")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_PORT")
	viper.BindEnv("SMTP_USERNAME")
	viper.BindEnv("SMTP_PASSWORD")
	viper.BindEnv("SMTP_FROM")
	viper.BindEnv("DEFAULT_IMPORT_PASSWORD")
	viper.BindEnv("DEFAULT_DEPARTMENT")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
