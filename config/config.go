package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	AI       AIConfig
	OTP      OTPConfig
	Delivery DeliveryConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type StorageConfig struct {
	UploadDir  string
	ReportsDir string
}

type AIConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type OTPConfig struct {
	Expiry time.Duration
}

type DeliveryConfig struct {
	QueueSize int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 60 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	aiTimeout, err := time.ParseDuration(viper.GetString("AI_TIMEOUT"))
	if err != nil {
		aiTimeout = 30 * time.Second
	}

	otpExpiry, err := time.ParseDuration(viper.GetString("OTP_EXPIRY"))
	if err != nil {
		otpExpiry = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Storage: StorageConfig{
			UploadDir:  viper.GetString("UPLOAD_DIR"),
			ReportsDir: viper.GetString("REPORTS_DIR"),
		},
		AI: AIConfig{
			ServiceURL: viper.GetString("AI_SERVICE_URL"),
			Timeout:    aiTimeout,
		},
		OTP: OTPConfig{
			Expiry: otpExpiry,
		},
		Delivery: DeliveryConfig{
			QueueSize: viper.GetInt("DELIVERY_QUEUE_SIZE"),
		},
	}

	if config.Storage.UploadDir == "" {
		config.Storage.UploadDir = "uploads/patient_scans"
	}
	if config.Storage.ReportsDir == "" {
		config.Storage.ReportsDir = "reports/temp"
	}
	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.User
	}
	if config.Delivery.QueueSize <= 0 {
		config.Delivery.QueueSize = 64
	}

	return config, nil
}
