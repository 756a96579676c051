package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config agrisense (HTTP API) configuration, loaded once in main and
// injected into the components that need it.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Email EmailConfig
	SMS   SMSConfig
	MQTT  MQTTConfig

	// DashboardCacheTTL bounds staleness of cached dashboard payloads.
	DashboardCacheTTL time.Duration
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// EmailConfig SMTP alert delivery settings.
type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMSConfig SMS provider REST API settings (Twilio-compatible).
type SMSConfig struct {
	Enabled    bool
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
}

// MQTTConfig optional MQTT reading ingestion (default disabled).
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "agrisense")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Email.Enabled = getEnv("EMAIL_ENABLED", "false") == "true"
	cfg.Email.Host = getEnv("EMAIL_HOST", "smtp.gmail.com")
	cfg.Email.Port = parseInt(getEnv("EMAIL_PORT", "587"), 587)
	cfg.Email.Username = getEnv("EMAIL_HOST_USER", "")
	cfg.Email.Password = getEnv("EMAIL_HOST_PASSWORD", "")
	cfg.Email.From = getEnv("EMAIL_FROM", "alerts@agrisense.rw")

	cfg.SMS.Enabled = getEnv("SMS_ENABLED", "false") == "true"
	cfg.SMS.BaseURL = getEnv("SMS_BASE_URL", "https://api.twilio.com")
	cfg.SMS.AccountSID = getEnv("TWILIO_ACCOUNT_SID", "")
	cfg.SMS.AuthToken = getEnv("TWILIO_AUTH_TOKEN", "")
	cfg.SMS.From = getEnv("TWILIO_PHONE_NUMBER", "")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "agrisense-ingest")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "agrisense/readings/+")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))

	cfg.DashboardCacheTTL = parseDuration(getEnv("DASHBOARD_CACHE_TTL", "30s"), 30*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
