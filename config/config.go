package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Easypay  Easypay
	SMTP     SMTP
	Frontend Frontend
}

type Server struct {
	Port string
	// PublicBaseURL is how the payment gateway reaches this service back,
	// e.g. https://api.example.com.
	PublicBaseURL string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Easypay struct {
	BaseURL     string
	IndexPath   string
	ConfirmPath string
	StoreID     string
	HashKey     string
}

type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Frontend struct {
	// Origin restricts CORS; "*" when unset.
	Origin string
	// PaymentResultURL is where the browser lands after the gateway flow,
	// with the outcome in the query string.
	PaymentResultURL string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("EASYPAY_BASE_URL", "https://easypay.easypaisa.com.pk")
	viper.SetDefault("EASYPAY_INDEX_PATH", "/easypay/Index.jsf")
	viper.SetDefault("EASYPAY_CONFIRM_PATH", "/easypay/Confirm.jsf")
	viper.SetDefault("SMTP_PORT", "587")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.PublicBaseURL = viper.GetString("PUBLIC_BASE_URL")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Easypay.BaseURL = viper.GetString("EASYPAY_BASE_URL")
	config.Easypay.IndexPath = viper.GetString("EASYPAY_INDEX_PATH")
	config.Easypay.ConfirmPath = viper.GetString("EASYPAY_CONFIRM_PATH")
	config.Easypay.StoreID = viper.GetString("EASYPAY_STORE_ID")
	config.Easypay.HashKey = viper.GetString("EASYPAY_HASH_KEY")

	config.SMTP.Host = viper.GetString("SMTP_HOST")
	config.SMTP.Port = viper.GetString("SMTP_PORT")
	config.SMTP.Username = viper.GetString("SMTP_USERNAME")
	config.SMTP.Password = viper.GetString("SMTP_PASSWORD")
	config.SMTP.From = viper.GetString("SMTP_FROM")

	config.Frontend.Origin = viper.GetString("FRONTEND_ORIGIN")
	config.Frontend.PaymentResultURL = viper.GetString("PAYMENT_RESULT_URL")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
