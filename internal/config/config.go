package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ShopConfig carries shop-level policy knobs so the engines receive them as
// explicit configuration instead of reading ambient globals.
type ShopConfig struct {
	Name string `mapstructure:"name"`
	// TimezoneOffsetHours is the fixed shop-local offset used for stock
	// history timestamps and analytics bucketing (UTC+8 for the Manila shop).
	TimezoneOffsetHours int     `mapstructure:"timezone_offset_hours"`
	LowStockThreshold   float64 `mapstructure:"low_stock_threshold"`
	ForecastWindowDays  int     `mapstructure:"forecast_window_days"`
}

// Location builds the fixed shop-local offset.
func (s ShopConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", s.TimezoneOffsetHours), s.TimezoneOffsetHours*3600)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("shop.timezone_offset_hours", 8)
	viper.SetDefault("shop.low_stock_threshold", 5)
	viper.SetDefault("shop.forecast_window_days", 30)
	viper.SetDefault("server.timeoutSeconds", 30)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
