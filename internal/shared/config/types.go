package config

import "fmt"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
}

// GetAddr returns the host:port address for the HTTP server.
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "text" or "json"
	OutputPath string `mapstructure:"output_path"`
	ShowSource bool   `mapstructure:"show_source"` // show source for all levels, not just warn/error
}

// RedisConfig holds Redis connection settings for the correlation store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GetAddr returns the host:port address for the Redis client.
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TelegramConfig holds Bot API settings for the delivery gateway.
type TelegramConfig struct {
	BotToken      string  `mapstructure:"bot_token"`
	APIBaseURL    string  `mapstructure:"api_base_url"` // override for tests, defaults to api.telegram.org
	AdminChatIDs  []int64 `mapstructure:"admin_chat_ids"`
	WebhookSecret string  `mapstructure:"webhook_secret"`
	PollTimeout   int     `mapstructure:"poll_timeout"` // long polling timeout in seconds
	Language      string  `mapstructure:"language"`     // outbound message language, "ru" or "en"
}

// RetrievalConfig holds settings for the retrieval gate sidecar.
type RetrievalConfig struct {
	BaseURL             string  `mapstructure:"base_url"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds"`
}

// DeliveryConfig bounds outbound delivery retries.
type DeliveryConfig struct {
	MaxAttempts    int `mapstructure:"max_attempts"`
	BackoffBaseMS  int `mapstructure:"backoff_base_ms"`
	CorrelationTTL int `mapstructure:"correlation_ttl_hours"`
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret"`
	TokenExpiryHours  int    `mapstructure:"token_expiry_hours"`
	AdminUsername     string `mapstructure:"admin_username"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"` // bcrypt
}

// EmailConfig holds SMTP settings for the operator alert channel.
type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	OperatorAddr string `mapstructure:"operator_addr"`
}
