package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment, with
// MP_-prefixed environment variables overriding file values. Secrets
// (gateway keys, webhook signing secret, SMS key) are expected from the
// environment.
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("MP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// Validate ensures required configuration values are present. Secrets are
// mandatory in every environment: the core cannot talk to the gateway or
// authenticate webhooks without them.
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if c.Database.Host == "" {
		missing = append(missing, "database.host (or MP_DB_HOST)")
	}
	if c.Database.Username == "" {
		missing = append(missing, "database.username (or MP_DB_USERNAME)")
	}
	if c.Database.Database == "" {
		missing = append(missing, "database.database (or MP_DB_NAME)")
	}
	if c.Gateway.BaseURL == "" {
		missing = append(missing, "gateway.baseUrl")
	}
	if c.Gateway.SecretKey == "" {
		missing = append(missing, "gateway.secretKey (or MP_GATEWAY_SECRET_KEY)")
	}
	if c.Webhook.SigningSecret == "" {
		missing = append(missing, "webhook.signingSecret (or MP_WEBHOOK_SIGNING_SECRET)")
	}
	if c.Recovery.RetryCeiling <= 0 {
		missing = append(missing, "recovery.retryCeiling")
	}
	if c.Retry.MaxAttempts <= 0 {
		missing = append(missing, "retry.maxAttempts")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}

	if c.Environment != Development && c.Environment != Production && c.Environment != Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			c.Environment, Development, Production, Test)
	}

	return nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds

	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 300) // seconds

	v.SetDefault("gateway.baseUrl", "https://api.paystack.co")
	v.SetDefault("gateway.timeout", 15) // seconds

	v.SetDefault("retry.maxAttempts", 3)
	v.SetDefault("retry.initialDelayMs", 200)
	v.SetDefault("retry.backoffMultiplier", 2.0)
	v.SetDefault("retry.maxDelayMs", 5000)

	v.SetDefault("recovery.interval", 300)   // seconds
	v.SetDefault("recovery.staleAfter", 600) // seconds
	v.SetDefault("recovery.retryCeiling", 3)
	v.SetDefault("recovery.batchSize", 50)

	v.SetDefault("monitor.window", 3600) // seconds
	v.SetDefault("alert.failureRate", 0.25)
	v.SetDefault("alert.minSample", 10)
	v.SetDefault("alert.highValueThreshold", "100000")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
}

// getEnvironment determines the environment based on MP_ENV
func getEnvironment() string {
	env := os.Getenv("MP_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides prioritizes environment variables for sensitive values
func processEnvOverrides(v *viper.Viper) {
	if dbHost := os.Getenv("MP_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("MP_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("MP_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("MP_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("MP_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}

	if redisHost := os.Getenv("MP_REDIS_HOST"); redisHost != "" {
		v.Set("redis.host", redisHost)
	}
	if redisPass := os.Getenv("MP_REDIS_PASSWORD"); redisPass != "" {
		v.Set("redis.password", redisPass)
	}

	if secretKey := os.Getenv("MP_GATEWAY_SECRET_KEY"); secretKey != "" {
		v.Set("gateway.secretKey", secretKey)
	}
	if publicKey := os.Getenv("MP_GATEWAY_PUBLIC_KEY"); publicKey != "" {
		v.Set("gateway.publicKey", publicKey)
	}
	if baseURL := os.Getenv("MP_GATEWAY_BASE_URL"); baseURL != "" {
		v.Set("gateway.baseUrl", baseURL)
	}

	if signingSecret := os.Getenv("MP_WEBHOOK_SIGNING_SECRET"); signingSecret != "" {
		v.Set("webhook.signingSecret", signingSecret)
	}

	if smsKey := os.Getenv("MP_SMS_API_KEY"); smsKey != "" {
		v.Set("sms.apiKey", smsKey)
	}
	if alertURL := os.Getenv("MP_ALERT_WEBHOOK_URL"); alertURL != "" {
		v.Set("alert.webhookUrl", alertURL)
	}

	if logLevel := os.Getenv("MP_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}
}

// processDurations converts raw config numbers into time.Duration values
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second

	config.Redis.TTL = time.Duration(config.Redis.TTL) * time.Second
	config.Gateway.Timeout = time.Duration(config.Gateway.Timeout) * time.Second

	config.Retry.InitialDelay = time.Duration(config.Retry.InitialDelay) * time.Millisecond
	config.Retry.MaxDelay = time.Duration(config.Retry.MaxDelay) * time.Millisecond

	config.Recovery.Interval = time.Duration(config.Recovery.Interval) * time.Second
	config.Recovery.StaleAfter = time.Duration(config.Recovery.StaleAfter) * time.Second
	config.Monitor.Window = time.Duration(config.Monitor.Window) * time.Second
}
