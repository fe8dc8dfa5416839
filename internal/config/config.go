package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Shop      ShopConfig
	Gateway   GatewayConfig
	Backend   BackendConfig
	JWT       JWTConfig
	Email     EmailConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// ShopConfig identifies the shop on receipts and fixes its GST
// jurisdiction. State is the GST state code used for the CGST/SGST vs
// IGST split.
type ShopConfig struct {
	Name     string
	Address  string
	Phone    string
	GSTIN    string
	State    string
	Currency string
}

type GatewayConfig struct {
	BaseURL           string
	KeyID             string
	KeySecret         string
	TimeoutSeconds    int
	RequestsPerSecond float64
	Burst             int
}

type BackendConfig struct {
	BaseURL        string
	Token          string
	TimeoutSeconds int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type SessionConfig struct {
	TTLHours       int
	CleanupMinutes int
}

// RateLimitConfig throttles gateway order creation client-side.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "billing-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("SHOP_NAME", "Shopmitra Store")
	viper.SetDefault("SHOP_ADDRESS", "")
	viper.SetDefault("SHOP_PHONE", "")
	viper.SetDefault("SHOP_GSTIN", "")
	viper.SetDefault("SHOP_STATE", "")
	viper.SetDefault("SHOP_CURRENCY", "INR")
	viper.SetDefault("GATEWAY_BASE_URL", "https://api.razorpay.com")
	viper.SetDefault("GATEWAY_KEY_ID", "")
	viper.SetDefault("GATEWAY_KEY_SECRET", "")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:9000")
	viper.SetDefault("BACKEND_TOKEN", "")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 30)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("SESSION_CLEANUP_MINUTES", 10)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Shop: ShopConfig{
			Name:     viper.GetString("SHOP_NAME"),
			Address:  viper.GetString("SHOP_ADDRESS"),
			Phone:    viper.GetString("SHOP_PHONE"),
			GSTIN:    viper.GetString("SHOP_GSTIN"),
			State:    viper.GetString("SHOP_STATE"),
			Currency: viper.GetString("SHOP_CURRENCY"),
		},
		Gateway: GatewayConfig{
			BaseURL:           viper.GetString("GATEWAY_BASE_URL"),
			KeyID:             viper.GetString("GATEWAY_KEY_ID"),
			KeySecret:         viper.GetString("GATEWAY_KEY_SECRET"),
			TimeoutSeconds:    viper.GetInt("GATEWAY_TIMEOUT_SECONDS"),
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Backend: BackendConfig{
			BaseURL:        viper.GetString("BACKEND_BASE_URL"),
			Token:          viper.GetString("BACKEND_TOKEN"),
			TimeoutSeconds: viper.GetInt("BACKEND_TIMEOUT_SECONDS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Email: EmailConfig{
			Enabled:      viper.GetBool("EMAIL_ENABLED"),
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		Session: SessionConfig{
			TTLHours:       viper.GetInt("SESSION_TTL_HOURS"),
			CleanupMinutes: viper.GetInt("SESSION_CLEANUP_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}
}
