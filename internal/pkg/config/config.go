package config

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
)

// Token store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	// TabID identifies this storefront process among the tabs sharing a
	// token store. A random id is generated when unset.
	TabID string `env:"TAB_ID"`

	API        APIConfig
	TokenStore TokenStoreConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	Sandbox    SandboxConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type TokenStoreConfig struct {
	Backend string `env:"TOKEN_STORE, default=memory"`
	Key     string `env:"TOKEN_KEY,   default=auth_token"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Channel  string `env:"REDIS_CHANNEL,  default=storefront:token-events"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database   string `env:"MONGO_DB,         default=storefront"`
	Collection string `env:"MONGO_COLLECTION, default=session_tokens"`
}

type SandboxConfig struct {
	Port      string        `env:"SANDBOX_PORT,       default=8000"`
	JWTSecret string        `env:"SANDBOX_JWT_SECRET, default=sandbox-secret"`
	TokenTTL  time.Duration `env:"SANDBOX_TOKEN_TTL,  default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
// It panics on malformed or inconsistent settings.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if cfg.TabID == "" {
		cfg.TabID = uuid.NewString()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig cannot express.
func (c *Config) Validate() error {
	switch c.TokenStore.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("TOKEN_STORE must be one of %s, %s, %s; got %q",
			BackendMemory, BackendRedis, BackendMongo, c.TokenStore.Backend)
	}
	if c.TokenStore.Key == "" {
		return fmt.Errorf("TOKEN_KEY must not be empty")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	return nil
}
