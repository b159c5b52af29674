package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Gateway     GatewayConfig  `mapstructure:"gateway"`
	Webhook     WebhookConfig  `mapstructure:"webhook"`
	SMS         SMSConfig      `mapstructure:"sms"`
	Alert       AlertConfig    `mapstructure:"alert"`
	Retry       RetryConfig    `mapstructure:"retry"`
	Recovery    RecoveryConfig `mapstructure:"recovery"`
	Monitor     MonitorConfig  `mapstructure:"monitor"`
	Logger      LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains ledger store connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
}

// RedisConfig contains the wallet cache settings; Host empty disables the cache
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"` // seconds
}

// GatewayConfig contains payment gateway credentials; secrets are supplied
// through the environment, never hard-coded
type GatewayConfig struct {
	BaseURL   string        `mapstructure:"baseUrl"`
	SecretKey string        `mapstructure:"secretKey"`
	PublicKey string        `mapstructure:"publicKey"`
	Timeout   time.Duration `mapstructure:"timeout"` // seconds
}

// WebhookConfig contains webhook verification settings
type WebhookConfig struct {
	SigningSecret string `mapstructure:"signingSecret"`
}

// SMSConfig contains the SMS provider credentials used by the alert sink
type SMSConfig struct {
	APIKey   string `mapstructure:"apiKey"`
	SenderID string `mapstructure:"senderId"`
	OpsPhone string `mapstructure:"opsPhone"`
}

// AlertConfig contains the ops alert sink settings
type AlertConfig struct {
	WebhookURL         string  `mapstructure:"webhookUrl"`
	HighValueThreshold string  `mapstructure:"highValueThreshold"`
	FailureRate        float64 `mapstructure:"failureRate"`
	MinSample          int64   `mapstructure:"minSample"`
}

// RetryConfig contains retry executor settings
type RetryConfig struct {
	MaxAttempts       int           `mapstructure:"maxAttempts"`
	InitialDelay      time.Duration `mapstructure:"initialDelayMs"` // milliseconds
	BackoffMultiplier float64       `mapstructure:"backoffMultiplier"`
	MaxDelay          time.Duration `mapstructure:"maxDelayMs"` // milliseconds
}

// RecoveryConfig contains recovery sweeper settings
type RecoveryConfig struct {
	Interval     time.Duration `mapstructure:"interval"`   // seconds
	StaleAfter   time.Duration `mapstructure:"staleAfter"` // seconds
	RetryCeiling int           `mapstructure:"retryCeiling"`
	BatchSize    int           `mapstructure:"batchSize"`
}

// MonitorConfig contains failure-rate monitoring settings
type MonitorConfig struct {
	Window time.Duration `mapstructure:"window"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
