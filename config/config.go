package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	AuthFirebase = "firebase"
	AuthLocal    = "local"
)

type Config struct {
	Address     string `env:"ADDRESS" envDefault:":8080"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"` // postgres, mongo or memory
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	SeedFile    string `env:"SEED_FILE"` // JSON catalog loaded by the memory driver

	DB       DBConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Log      LogConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"DB_NAME" envDefault:"restaurant"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGODB_DB" envDefault:"restaurant"`
}

type AuthConfig struct {
	Provider                string        `env:"AUTH_PROVIDER" envDefault:"local"` // firebase or local
	FirebaseProjectID       string        `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string        `env:"FIREBASE_CREDENTIALS_PATH"`
	JWTSecret               string        `env:"JWT_SECRET"`
	SessionTTL              time.Duration `env:"SESSION_TTL" envDefault:"120h"`
	SecureCookies           bool          `env:"SECURE_COOKIES" envDefault:"false"`
}

type TelegramConfig struct {
	MessageToken string  `env:"MESSAGE_TOKEN"`                  // token for sending order notifications to staff
	StaffChatIDs []int64 `env:"STAFF_CHAT_IDS" envSeparator:","` // chats that receive order notifications
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`   // text or json
	Output     string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout, file or both
	File       string `env:"LOG_FILE" envDefault:"logs/app.log"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"` // days
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations env tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Auth.Provider {
	case AuthFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firebase auth provider")
		}
	case AuthLocal:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the local auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	return nil
}

// ConnString builds a postgres URL; user and password are escaped.
func (c DBConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	return u.String()
}
