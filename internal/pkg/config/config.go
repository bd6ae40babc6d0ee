package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	// ClientURL is the storefront origin, used for CORS and reset links.
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`

	Auth    AuthConfig
	Orders  OrderConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	SMTP    SMTPConfig
}

type AuthConfig struct {
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type OrderConfig struct {
	CancelWindow time.Duration `env:"ORDER_CANCEL_WINDOW, default=1h"`
	DedupTTL     time.Duration `env:"CHECKOUT_DEDUP_TTL,  default=10s"`
	EventWorkers int           `env:"ORDER_EVENT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gooddeal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// StorageConfig selects where uploaded images go. Cloudinary is used when
// CloudinaryURL is set, the local UploadDir otherwise.
type StorageConfig struct {
	UploadDir        string `env:"UPLOAD_DIR,        default=./uploads"`
	StaticURL        string `env:"STATIC_URL,        default=/uploads"`
	CloudinaryURL    string `env:"CLOUDINARY_URL"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER, default=gooddeal"`
}

// SMTPConfig is optional; without a host mail is only logged.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads a .env file when present, then the environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
