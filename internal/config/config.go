package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr  string
	Environment string
	Store       StoreConfig
	Remote      RemoteConfig
	Poll        PollConfig
	Printer     PrinterConfig
	LogLevel    string
}

type StoreConfig struct {
	Path string
}

// RemoteConfig carries the optional boot-time credentials for the order API.
// When empty, the device is expected to log in through the control API and the
// credentials live in the settings store instead.
type RemoteConfig struct {
	APIURL string
	Token  string
}

type PollConfig struct {
	Interval time.Duration
}

// PrinterConfig selects the transport and the receipt layout. Transport is
// "tcp" for network ESC/POS printers or "file" for serial character devices.
type PrinterConfig struct {
	Transport       string
	Width           int
	DirectionPolicy string
	DialTimeout     time.Duration
	FeedLines       int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("LISTEN_ADDR", ":8090")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("STORE_PATH", "orderup.db")
	viper.SetDefault("POLL_INTERVAL_SECONDS", "10")
	viper.SetDefault("PRINTER_TRANSPORT", "tcp")
	viper.SetDefault("RECEIPT_WIDTH", "32")
	viper.SetDefault("DIRECTION_POLICY", "reverse_hebrew")
	viper.SetDefault("PRINTER_DIAL_TIMEOUT_SECONDS", "10")
	viper.SetDefault("PRINTER_FEED_LINES", "3")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		ListenAddr:  getEnvOrViper("LISTEN_ADDR", ":8090"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Store: StoreConfig{
			Path: getEnvOrViper("STORE_PATH", "orderup.db"),
		},
		Remote: RemoteConfig{
			APIURL: getEnvOrViper("POS_API_URL", ""),
			Token:  getEnvOrViper("POS_TOKEN", ""),
		},
		Poll: PollConfig{
			Interval: time.Duration(getIntOrViper("POLL_INTERVAL_SECONDS", 10)) * time.Second,
		},
		Printer: PrinterConfig{
			Transport:       getEnvOrViper("PRINTER_TRANSPORT", "tcp"),
			Width:           getIntOrViper("RECEIPT_WIDTH", 32),
			DirectionPolicy: getEnvOrViper("DIRECTION_POLICY", "reverse_hebrew"),
			DialTimeout:     time.Duration(getIntOrViper("PRINTER_DIAL_TIMEOUT_SECONDS", 10)) * time.Second,
			FeedLines:       getIntOrViper("PRINTER_FEED_LINES", 3),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("STORE_PATH is required")
	}
	if cfg.Printer.Transport != "tcp" && cfg.Printer.Transport != "file" {
		return nil, fmt.Errorf("PRINTER_TRANSPORT must be tcp or file, got %q", cfg.Printer.Transport)
	}
	if cfg.Printer.Width != 32 && cfg.Printer.Width != 48 {
		return nil, fmt.Errorf("RECEIPT_WIDTH must be 32 or 48, got %d", cfg.Printer.Width)
	}
	if cfg.Poll.Interval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getIntOrViper(key string, defaultValue int) int {
	if viper.IsSet(key) {
		if v := viper.GetInt(key); v != 0 {
			return v
		}
	}
	return defaultValue
}
